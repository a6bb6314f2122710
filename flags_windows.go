////////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

//go:build windows

package shareopen

func platformFlags() FlagTable {
	return FlagTable{
		ShareValidFlags: ShareRead | ShareWrite | ShareDelete,
		Binary:          O_BINARY,
		NoInherit:       O_NOINHERIT,
		CloseOnExec:     O_NOINHERIT,
	}
}
