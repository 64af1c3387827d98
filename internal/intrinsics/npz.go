package intrinsics

import (
	"archive/zip"
	"strings"

	"github.com/pkg/errors"
	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"
)

// Entry names inside a calibration archive. A numpy savez call appends
// .npy to each array key.
const (
	entryK   = "K.npy"
	entryD   = "D.npy"
	entryDim = "dim.npy"
)

// LoadNPZ reads camera calibration parameters from a NumPy .npz
// archive holding the camera matrix K (3x3), the distortion
// coefficients D (4 values, flat or column-shaped) and the calibration
// dimensions dim (width then height).
func LoadNPZ(path string) (*Params, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open calibration archive %s", path)
	}
	defer zr.Close()

	var k, d, dim []float64
	for _, f := range zr.File {
		switch f.Name {
		case entryK:
			k, err = readEntry(f, 9)
		case entryD:
			d, err = readEntry(f, 4)
		case entryDim:
			dim, err = readEntry(f, 2)
		default:
			continue
		}
		if err != nil {
			return nil, errors.Wrapf(err, "entry %s in %s", f.Name, path)
		}
	}
	if k == nil || d == nil || dim == nil {
		return nil, errors.Errorf("calibration archive %s is missing entries (want %s, %s and %s)",
			path, entryK, entryD, entryDim)
	}

	p := &Params{
		K:      mat.NewDense(3, 3, k),
		Width:  int(dim[0]),
		Height: int(dim[1]),
	}
	copy(p.D[:], d)

	if err := p.Validate(); err != nil {
		return nil, errors.Wrapf(err, "calibration archive %s", path)
	}
	return p, nil
}

// readEntry decodes one .npy archive entry as float64 values after
// checking that it carries exactly want values in C order. Integer and
// float32 entries are widened; numpy's default dtypes differ between
// platforms.
func readEntry(f *zip.File, want int) ([]float64, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, errors.Wrap(err, "failed to open entry")
	}
	defer rc.Close()

	r, err := npyio.NewReader(rc)
	if err != nil {
		return nil, errors.Wrap(err, "not a valid .npy entry")
	}
	if r.Header.Descr.Fortran {
		return nil, errors.New("fortran-order arrays are not supported")
	}
	n := 1
	for _, s := range r.Header.Descr.Shape {
		n *= s
	}
	if n != want {
		return nil, errors.Errorf("unexpected shape %v, want %d values", r.Header.Descr.Shape, want)
	}

	out := make([]float64, n)
	switch strings.TrimLeft(r.Header.Descr.Type, "<>|=") {
	case "f8":
		if err := r.Read(&out); err != nil {
			return nil, errors.Wrap(err, "failed to decode entry")
		}
	case "f4":
		var v []float32
		if err := r.Read(&v); err != nil {
			return nil, errors.Wrap(err, "failed to decode entry")
		}
		for i, x := range v {
			out[i] = float64(x)
		}
	case "i8":
		var v []int64
		if err := r.Read(&v); err != nil {
			return nil, errors.Wrap(err, "failed to decode entry")
		}
		for i, x := range v {
			out[i] = float64(x)
		}
	case "i4":
		var v []int32
		if err := r.Read(&v); err != nil {
			return nil, errors.Wrap(err, "failed to decode entry")
		}
		for i, x := range v {
			out[i] = float64(x)
		}
	default:
		return nil, errors.Errorf("unsupported dtype %q", r.Header.Descr.Type)
	}
	return out, nil
}
