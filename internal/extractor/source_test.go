package extractor

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectKind(t *testing.T) {
	tests := []struct {
		name     string
		expected Kind
		wantErr  bool
	}{
		{name: "rides.txt", expected: KindText},
		{name: "RIDES.TXT", expected: KindText},
		{name: "rides.tsv", expected: KindText},
		{name: "rides", expected: KindText},
		{name: "trips.pdf", expected: KindPDF},
		{name: "trips.xlsx", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectKind(tt.name)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrUnsupportedSource))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	content := "01/02/18\tJohn Doe\t$10.00\tUberX\tSan Francisco\tVisa\n"

	plain := filepath.Join(dir, "rides.txt")
	require.NoError(t, os.WriteFile(plain, []byte(content), 0o644))

	got, err := ReadFile(plain)
	require.NoError(t, err)
	assert.Equal(t, content, got)

	bom := filepath.Join(dir, "bom.txt")
	require.NoError(t, os.WriteFile(bom, append([]byte{0xEF, 0xBB, 0xBF}, content...), 0o644))

	got, err = ReadFile(bom)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestReadFileErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadFile(filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)

	binary := filepath.Join(dir, "blob.txt")
	require.NoError(t, os.WriteFile(binary, []byte{0x00, 0xff, 0xfe, 0x01}, 0o644))
	_, err = ReadFile(binary)
	assert.True(t, errors.Is(err, ErrUnsupportedSource))

	_, err = ReadFile(filepath.Join(dir, "rides.docx"))
	assert.True(t, errors.Is(err, ErrUnsupportedSource))

	_, err = ReadFile(filepath.Join(dir, "missing.pdf"))
	assert.Error(t, err)
}

func TestRead(t *testing.T) {
	content := "01/02/18\tJohn Doe\t$10.00"

	got, err := Read(strings.NewReader(content), "upload.txt")
	require.NoError(t, err)
	assert.Equal(t, content, got)

	_, err = Read(strings.NewReader("not a pdf"), "upload.pdf")
	assert.Error(t, err)

	_, err = Read(strings.NewReader(content), "upload.csv")
	assert.True(t, errors.Is(err, ErrUnsupportedSource))
}
