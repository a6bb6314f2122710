////////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

//go:build unix

package shareopen

func platformFlags() FlagTable {
	return FlagTable{
		ShareValidFlags: 0,
		Binary:          0,
		NoInherit:       O_NOINHERIT,
		CloseOnExec:     O_NOINHERIT,
	}
}
