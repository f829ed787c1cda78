package source

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"unsafe"

	"golang.org/x/exp/mmap"

	"github.com/tickworks/minbar/pkg/common"
)

var ErrSpoolEOF = errors.New("EOF")

// Spool is an mmap-backed reader over a file of fixed-size SpoolTick
// entries. A contract-month CSV is decoded once into a spool and re-read
// cheaply on every subsequent run. Safe for concurrent readers.
type Spool struct {
	path       string
	reader     *mmap.ReaderAt
	bufferPool *sync.Pool
}

func OpenSpool(path string) (*Spool, error) {
	reader, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open spool %q: %w", path, err)
	}
	return &Spool{
		path:   path,
		reader: reader,
		bufferPool: &sync.Pool{
			New: func() interface{} {
				buffer := make([]byte, int(unsafe.Sizeof(SpoolTick{})))
				return &buffer
			},
		},
	}, nil
}

func (s *Spool) Close() {
	_ = s.reader.Close()
}

func (s *Spool) Read(index int64, data *SpoolTick) error {
	buffer := s.bufferPool.Get().(*[]byte)
	defer s.bufferPool.Put(buffer)

	offset := index * int64(len(*buffer))

	n, err := s.reader.ReadAt(*buffer, offset)
	if err != nil && err != io.EOF {
		return fmt.Errorf("unable to read spool entry: %w", err)
	}
	if n < len(*buffer) {
		return ErrSpoolEOF
	}

	// SpoolTick carries no padding, the raw cast is safe on the writing
	// architecture.
	*data = *(*SpoolTick)(unsafe.Pointer(&(*buffer)[0])) // #nosec G103
	return nil
}

func (s *Spool) EntryCount() (int64, error) {
	entrySize := int64(unsafe.Sizeof(SpoolTick{}))

	fileInfo, err := os.Stat(s.path)
	if err != nil {
		return 0, fmt.Errorf("unable to stat spool %q: %w", s.path, err)
	}

	totalSize := fileInfo.Size()
	if totalSize%entrySize != 0 {
		return 0, fmt.Errorf("spool %q size is not a multiple of entry size", s.path)
	}

	return totalSize / entrySize, nil
}

// ReadAll materializes the whole spool back into normalized ticks.
func (s *Spool) ReadAll() ([]common.Tick, error) {
	count, err := s.EntryCount()
	if err != nil {
		return nil, err
	}

	ticks := make([]common.Tick, count)
	var entry SpoolTick
	for i := int64(0); i < count; i++ {
		if err := s.Read(i, &entry); err != nil {
			return nil, err
		}
		entry.ToTick(&ticks[i])
	}
	return ticks, nil
}

// WriteSpool dumps normalized ticks into a spool file, little endian, one
// fixed-size record per tick.
func WriteSpool(path string, ticks []common.Tick) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create spool %q: %w", path, err)
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	w := bufio.NewWriter(f)
	for _, tick := range ticks {
		if err := binary.Write(w, binary.LittleEndian, FromTick(tick)); err != nil {
			return fmt.Errorf("unable to write spool entry: %w", err)
		}
	}
	return w.Flush()
}
