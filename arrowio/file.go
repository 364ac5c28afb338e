// Copyright 2024 The Layout Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
// implied. See the License for the specific language governing
// permissions and limitations under the License.

package arrowio

import (
	"bytes"
	"context"
	"io"
	"os"

	"github.com/apache/arrow/go/v11/arrow"
	"github.com/apache/arrow/go/v11/arrow/array"
	"github.com/apache/arrow/go/v11/arrow/ipc"
	"github.com/apache/arrow/go/v11/arrow/memory"
	"github.com/cockroachdb/errors"
	"github.com/edsrzf/mmap-go"

	"github.com/gocolumnar/layout/layout"
)

// WriteFile writes contents as a single Arrow IPC file, one named column
// per entry, mirroring the teacher's FileSerializer.AppendBatch: every
// column becomes a field of one record batch sharing a row count, which
// means every content must have the same Length(). ctx is checked once,
// before any work starts, following this codebase's convention that any
// operation touching an io.Writer takes one; the conversion itself never
// blocks.
func WriteFile(ctx context.Context, w io.Writer, contents []layout.Content, names []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(contents) != len(names) {
		return errors.Newf("arrowio.WriteFile: %d contents but %d names", len(contents), len(names))
	}
	if len(contents) == 0 {
		return errors.Newf("arrowio.WriteFile: no columns to write")
	}
	mem := memory.NewGoAllocator()
	nrows := contents[0].Length()
	fields := make([]arrow.Field, len(contents))
	cols := make([]arrow.Array, len(contents))
	for i, c := range contents {
		if c.Length() != nrows {
			return errors.Newf("arrowio.WriteFile: column %q has length %d, want %d", names[i], c.Length(), nrows)
		}
		arr, err := ToArrowArray(c, mem)
		if err != nil {
			return errors.Wrapf(err, "arrowio.WriteFile: column %q", names[i])
		}
		cols[i] = arr
		fields[i] = arrow.Field{Name: names[i], Type: arr.DataType(), Nullable: true}
	}
	schema := arrow.NewSchema(fields, nil)
	rec := array.NewRecord(schema, cols, nrows)
	defer rec.Release()

	buf := new(seekableBuffer)
	fw, err := ipc.NewFileWriter(buf, ipc.WithSchema(schema), ipc.WithAllocator(mem))
	if err != nil {
		return errors.Wrap(err, "arrowio.WriteFile: open writer")
	}
	if err := fw.Write(rec); err != nil {
		return errors.Wrap(err, "arrowio.WriteFile: write batch")
	}
	if err := fw.Close(); err != nil {
		return errors.Wrap(err, "arrowio.WriteFile: close writer")
	}
	_, err = w.Write(buf.data)
	return errors.Wrap(err, "arrowio.WriteFile: flush writer")
}

// seekableBuffer is an in-memory io.WriteSeeker: ipc.NewFileWriter needs
// to seek back and patch the IPC footer/metadata length after the body is
// written, which a plain io.Writer (WriteFile's parameter type) cannot
// support, so the IPC file is assembled here and copied to w in one shot.
type seekableBuffer struct {
	data []byte
	pos  int64
}

func (b *seekableBuffer) Write(p []byte) (int, error) {
	end := b.pos + int64(len(p))
	if end > int64(len(b.data)) {
		grown := make([]byte, end)
		copy(grown, b.data)
		b.data = grown
	}
	copy(b.data[b.pos:end], p)
	b.pos = end
	return len(p), nil
}

func (b *seekableBuffer) Seek(offset int64, whence int) (int64, error) {
	var newPos int64
	switch whence {
	case io.SeekStart:
		newPos = offset
	case io.SeekCurrent:
		newPos = b.pos + offset
	case io.SeekEnd:
		newPos = int64(len(b.data)) + offset
	default:
		return 0, errors.Newf("arrowio: invalid seek whence %d", whence)
	}
	if newPos < 0 {
		return 0, errors.Newf("arrowio: negative seek position %d", newPos)
	}
	b.pos = newPos
	return newPos, nil
}

// ReadFile reads an Arrow IPC file written by WriteFile back into named
// Content columns. Per the teacher's NewFileDeserializerFromPath, the
// file is opened through github.com/edsrzf/mmap-go rather than read
// wholesale into a heap buffer, so the IPC decoder parses directly off
// mapped pages. FromArrowArray still widens each decoded Arrow array into
// a Content tree with its own heap buffers (see DESIGN.md), so unlike
// ToArrowArray/FromArrowArray used on in-memory arrays, the mapping is
// unmapped again before ReadFile returns.
func ReadFile(ctx context.Context, path string) ([]layout.Content, []string, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "arrowio.ReadFile: open")
	}
	defer f.Close()

	mapped, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, nil, errors.Wrap(err, "arrowio.ReadFile: mmap")
	}
	defer mapped.Unmap()

	mem := memory.NewGoAllocator()
	fr, err := ipc.NewFileReader(bytes.NewReader(mapped), ipc.WithAllocator(mem))
	if err != nil {
		return nil, nil, errors.Wrap(err, "arrowio.ReadFile: open ipc reader")
	}
	defer fr.Close()

	if fr.NumRecords() == 0 {
		return nil, nil, errors.Newf("arrowio.ReadFile: %s has no record batches", path)
	}
	rec, err := fr.Record(0)
	if err != nil {
		return nil, nil, errors.Wrap(err, "arrowio.ReadFile: read batch 0")
	}

	schema := rec.Schema()
	names := make([]string, len(schema.Fields()))
	contents := make([]layout.Content, len(schema.Fields()))
	for i := 0; i < len(schema.Fields()); i++ {
		names[i] = schema.Field(i).Name
		c, err := FromArrowArray(rec.Column(i))
		if err != nil {
			return nil, nil, errors.Wrapf(err, "arrowio.ReadFile: column %q", names[i])
		}
		contents[i] = c
	}
	return contents, names, nil
}
