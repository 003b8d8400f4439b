// Package npy reads and writes NumPy .npy arrays, so the held-out partition
// stays loadable by numpy.load as well as by Go.
package npy

import (
	"bufio"
	"io"
	"reflect"
	"unsafe"

	"github.com/pkg/errors"
	"github.com/sbinet/npyio"
	"github.com/spf13/afero"
)

// Element is the set of element types this package stores.
type Element interface {
	int32 | int64 | float64
}

func descr[T Element]() string {
	var zero T
	switch any(zero).(type) {
	case int32:
		return "<i4"
	case int64:
		return "<i8"
	default:
		return "<f8"
	}
}

func volume(shape []int) (int, error) {
	if len(shape) == 0 {
		return 0, errors.New("npy: empty shape")
	}
	n := 1
	for _, d := range shape {
		if d < 0 {
			return 0, errors.Errorf("npy: negative dimension in shape %v", shape)
		}
		n *= d
	}
	return n, nil
}

// shaped views data as a nested Go array of the given shape, which npyio
// stores with that shape in C order.
func shaped[T Element](shape []int, data []T) any {
	if len(shape) == 1 {
		return data
	}
	rt := reflect.TypeOf(data).Elem()
	for i := len(shape) - 1; i >= 0; i-- {
		rt = reflect.ArrayOf(shape[i], rt)
	}
	p := reflect.New(rt)
	if len(data) > 0 {
		copy(unsafe.Slice((*T)(p.UnsafePointer()), len(data)), data)
	}
	return p.Elem().Interface()
}

// Write encodes data with the given shape as a little endian, C ordered array.
func Write[T Element](w io.Writer, shape []int, data []T) error {
	n, err := volume(shape)
	if err != nil {
		return err
	}
	if n != len(data) {
		return errors.Errorf("npy: shape %v does not fit %d values", shape, len(data))
	}
	return errors.Wrap(npyio.Write(w, shaped(shape, data)), "npy: writing")
}

// Read decodes an array written by Write or numpy.save. The element type
// stored in the file must match T exactly.
func Read[T Element](r io.Reader) (shape []int, data []T, err error) {
	rd, err := npyio.NewReader(r)
	if err != nil {
		return nil, nil, errors.Wrap(err, "npy: reading header")
	}
	if got, want := rd.Header.Descr.Type, descr[T](); got != want {
		return nil, nil, errors.Errorf("npy: element type %s, want %s", got, want)
	}
	if rd.Header.Descr.Fortran {
		return nil, nil, errors.New("npy: fortran ordered arrays are not supported")
	}
	shape = append([]int{}, rd.Header.Descr.Shape...)
	n := 1
	for _, d := range shape {
		n *= d
	}
	data = make([]T, n)
	if err = rd.Read(&data); err != nil {
		return nil, nil, errors.Wrap(err, "npy: reading data")
	}
	return shape, data, nil
}

// Save writes the array into the named file of fs.
func Save[T Element](fs afero.Fs, name string, shape []int, data []T) error {
	f, err := fs.Create(name)
	if err != nil {
		return errors.Wrapf(err, "npy: creating %s", name)
	}
	bw := bufio.NewWriter(f)
	if err = Write(bw, shape, data); err == nil {
		err = bw.Flush()
	}
	if err != nil {
		f.Close()
		return errors.Wrapf(err, "npy: saving %s", name)
	}
	return errors.Wrapf(f.Close(), "npy: closing %s", name)
}

// Load reads the array stored in the named file of fs.
func Load[T Element](fs afero.Fs, name string) ([]int, []T, error) {
	f, err := fs.Open(name)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "npy: opening %s", name)
	}
	defer f.Close()
	shape, data, err := Read[T](bufio.NewReader(f))
	if err != nil {
		return nil, nil, errors.Wrapf(err, "npy: loading %s", name)
	}
	return shape, data, nil
}
