////////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package shareopen

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// This lists dir and checks the listing is as expected
func checkListing(t *testing.T, dir string, want []string) {
	var got []string
	nodes, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, node := range nodes {
		info, err := node.Info()
		require.NoError(t, err)
		got = append(got, fmt.Sprintf("%s,%d,%v", node.Name(), info.Size(), node.IsDir()))
	}
	assert.Equal(t, want, got)
}

// Test we can delete an *os.File while it is open
func TestOpenFile_Delete(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file1")
	f, err := Create(path)
	require.NoError(t, err)

	_, err = f.Write([]byte("hello"))
	assert.NoError(t, err)

	assert.NoError(t, os.Remove(path))
	assert.NoError(t, f.Close())

	checkListing(t, dir, nil)
}

// Test we can rename an *os.File while it is open
func TestOpenFile_Rename(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file1")
	f, err := Create(path)
	require.NoError(t, err)

	_, err = f.Write([]byte("hello"))
	assert.NoError(t, err)

	assert.NoError(t, os.Rename(path, filepath.Join(dir, "file2")))
	assert.NoError(t, f.Close())

	checkListing(t, dir, []string{
		"file2,5,false",
	})
}

// Smoke test the OpenRead, OpenFile and Create functions
func TestOpenFile_Operations(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file1")

	f, err := Create(path)
	require.NoError(t, err)
	assert.Equal(t, path, f.Name())
	_, err = f.Write([]byte("hello"))
	assert.NoError(t, err)
	assert.NoError(t, f.Close())

	checkListing(t, dir, []string{
		"file1,5,false",
	})

	// Append onto the file
	f, err = OpenFile(path, os.O_RDWR|os.O_APPEND, 0o666)
	require.NoError(t, err)
	_, err = f.Write([]byte("HI"))
	assert.NoError(t, err)
	assert.NoError(t, f.Close())

	checkListing(t, dir, []string{
		"file1,7,false",
	})

	// Read it back in
	f, err = OpenRead(path)
	require.NoError(t, err)
	b := make([]byte, 10)
	n, err := f.Read(b)
	assert.True(t, err == io.EOF || err == nil)
	assert.Equal(t, 7, n)
	assert.Equal(t, "helloHI", string(b[:n]))
	assert.NoError(t, f.Close())

	_, err = OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o666)
	assert.True(t, errors.Is(err, fs.ErrExist), "got %v", err)
}

func TestFromOSFlags(t *testing.T) {
	assert.Equal(t, O_RDWR|O_CREAT|O_TRUNC, fromOSFlags(os.O_RDWR|os.O_CREATE|os.O_TRUNC))
	assert.Equal(t, O_WRONLY|O_APPEND|O_EXCL, fromOSFlags(os.O_WRONLY|os.O_APPEND|os.O_EXCL))
	assert.Equal(t, O_RDONLY, fromOSFlags(os.O_RDONLY))
}
