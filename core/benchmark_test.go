package big

import (
	"bytes"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/meigma/big/core/testutil"
)

func benchFiles(count, size int) []testutil.File {
	files := make([]testutil.File, count)
	for i := range files {
		files[i] = testutil.File{
			Name: fmt.Sprintf(`data\dir%02d\file%05d.ini`, i%16, i),
			Data: bytes.Repeat([]byte{byte('a' + i%26)}, size),
		}
	}
	return files
}

func BenchmarkRepack(b *testing.B) {
	for _, count := range []int{100, 1000} {
		b.Run(fmt.Sprintf("entries=%d", count), func(b *testing.B) {
			src := testutil.BuildArchive("BIGF", []byte("L253"), benchFiles(count, 4<<10)...)
			a, err := FromBytes(src)
			if err != nil {
				b.Fatal(err)
			}
			b.SetBytes(int64(len(src)))
			b.ResetTimer()
			for b.Loop() {
				if err := a.EditFile(`data\dir00\file00000.ini`, []byte("edited")); err != nil {
					b.Fatal(err)
				}
				if err := a.Repack(); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkBackedRead(b *testing.B) {
	files := benchFiles(256, 64<<10)
	path := testutil.WriteArchive(b, testutil.BuildArchive("BIGF", []byte("L253"), files...))
	a, err := OpenFile(path)
	if err != nil {
		b.Fatal(err)
	}
	b.SetBytes(64 << 10)
	b.ResetTimer()
	i := 0
	for b.Loop() {
		if _, err := a.ReadFile(files[i%len(files)].Name); err != nil {
			b.Fatal(err)
		}
		i++
	}
	b.ReportMetric(float64(a.MemoryUsage()), "inline-bytes")
}

func BenchmarkBackedSave(b *testing.B) {
	files := benchFiles(64, 256<<10)
	path := testutil.WriteArchive(b, testutil.BuildArchive("BIGF", []byte("L253"), files...))
	a, err := OpenFile(path)
	if err != nil {
		b.Fatal(err)
	}
	out := filepath.Join(b.TempDir(), "out.big")
	b.ResetTimer()
	for b.Loop() {
		if err := a.AddFile("extra.bin", []byte("x")); err != nil {
			b.Fatal(err)
		}
		if err := a.Save(out); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSearch(b *testing.B) {
	src := testutil.BuildArchive("BIGF", []byte("L253"), benchFiles(500, 8<<10)...)
	a, err := FromBytes(src)
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for b.Loop() {
		if _, err := a.Search("zzz"); err != nil {
			b.Fatal(err)
		}
	}
}
