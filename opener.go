////////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package shareopen

// Opener turns a path and flags into a raw descriptor. perm carries the
// permission bits used when a file is created and share the ShareFlags to
// request; openers that have no use for share must still accept it.
//
// NativeOpen is the platform's Opener and is what Open uses when no custom
// Opener is given.
type Opener func(ref FileRef, flags Oflag, perm uint32, share ShareFlags) (Descriptor, error)

var _ Opener = NativeOpen
