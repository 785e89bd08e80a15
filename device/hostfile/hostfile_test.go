package hostfile

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/embedCreativity/EEPROM-FS/consts"
)

func TestInitCreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonvolatile.bin")
	a := New(path, 2048)
	require.NoError(t, a.Init())
	defer a.Close()

	buf := make([]byte, 2048)
	n, err := a.Read(buf, 0)
	require.NoError(t, err)
	require.Equal(t, uint32(2048), n)
	for _, b := range buf {
		require.Equal(t, byte(consts.ErasedByte), b)
	}
}

func TestInitRecreatesWrongSizedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonvolatile.bin")

	a1 := New(path, 64)
	require.NoError(t, a1.Init())
	require.NoError(t, a1.Close())

	a2 := New(path, 2048)
	require.NoError(t, a2.Init())
	defer a2.Close()

	size, err := a2.Size()
	require.NoError(t, err)
	require.Equal(t, uint32(2048), size)

	buf := make([]byte, 2048)
	n, err := a2.Read(buf, 0)
	require.NoError(t, err)
	require.Equal(t, uint32(2048), n)
	for _, b := range buf {
		require.Equal(t, byte(consts.ErasedByte), b)
	}
}

func TestProgramThenReadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonvolatile.bin")
	a := New(path, 256)
	require.NoError(t, a.Init())
	defer a.Close()

	payload := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	require.NoError(t, a.Program(payload, 16))

	out := make([]byte, 4)
	n, err := a.Read(out, 16)
	require.NoError(t, err)
	require.Equal(t, uint32(4), n)
	require.Equal(t, payload, out)
}

func TestMisalignedReadRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonvolatile.bin")
	a := New(path, 256)
	require.NoError(t, a.Init())
	defer a.Close()

	_, err := a.Read(make([]byte, 4), 3)
	require.ErrorIs(t, err, ErrWordAlignment())
}

func TestMisalignedProgramRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonvolatile.bin")
	a := New(path, 256)
	require.NoError(t, a.Init())
	defer a.Close()

	err := a.Program(make([]byte, 3), 0)
	require.ErrorIs(t, err, ErrWordAlignment())
}

func TestMassErase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonvolatile.bin")
	a := New(path, 64)
	require.NoError(t, a.Init())
	defer a.Close()

	require.NoError(t, a.Program([]byte{1, 2, 3, 4}, 0))
	require.NoError(t, a.MassErase())

	buf := make([]byte, 64)
	_, err := a.Read(buf, 0)
	require.NoError(t, err)
	for _, b := range buf {
		require.Equal(t, byte(consts.ErasedByte), b)
	}
}
