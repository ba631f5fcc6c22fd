package hdf5

import (
	"errors"
	"fmt"

	gohdf5 "gonum.org/v1/hdf5"

	"github.com/couchcryptid/iris2odim/internal/odim"
)

type attributable interface {
	CreateAttribute(name string, dtype *gohdf5.Datatype, dspace *gohdf5.Dataspace) (*gohdf5.Attribute, error)
}

type groupCreator interface {
	attributable
	CreateGroup(name string) (*gohdf5.Group, error)
	CreateDatasetWith(name string, dtype *gohdf5.Datatype, dspace *gohdf5.Dataspace, dcpl *gohdf5.PropList) (*gohdf5.Dataset, error)
}

func writeFile(name string, root *odim.Group, level int) (err error) {
	f, err := gohdf5.CreateFile(name, gohdf5.F_ACC_TRUNC)
	if err != nil {
		return fmt.Errorf("create hdf5 file: %w", err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	top, err := f.OpenGroup("/")
	if err != nil {
		return fmt.Errorf("open root group: %w", err)
	}
	defer func() {
		err = errors.Join(err, top.Close())
	}()
	return writeGroup(top, root, level)
}

func writeGroup(loc groupCreator, g *odim.Group, level int) error {
	for _, a := range g.Attrs {
		if err := writeAttr(loc, a); err != nil {
			return err
		}
	}
	for _, ds := range g.Datasets {
		if err := writeDataset(loc, ds, level); err != nil {
			return fmt.Errorf("dataset %s: %w", ds.Name, err)
		}
	}
	for _, child := range g.Groups {
		sub, err := loc.CreateGroup(child.Name)
		if err != nil {
			return fmt.Errorf("create group %s: %w", child.Name, err)
		}
		werr := writeGroup(sub, child, level)
		if err := errors.Join(werr, sub.Close()); err != nil {
			return fmt.Errorf("%s: %w", child.Name, err)
		}
	}
	return nil
}

func writeAttr(loc attributable, a odim.Attr) (err error) {
	var (
		dtype  *gohdf5.Datatype
		dspace *gohdf5.Dataspace
		data   any
	)

	switch v := a.Value.(type) {
	case string:
		// ODIM requires fixed length, NUL terminated strings.
		buf := append([]byte(v), 0)
		if dtype, err = gohdf5.T_C_S1.Copy(); err != nil {
			return err
		}
		defer dtype.Close()
		if err = dtype.SetSize(len(buf)); err != nil {
			return err
		}
		data = &buf[0]
	case int64:
		dtype = gohdf5.T_NATIVE_INT64
		data = &v
	case float64:
		dtype = gohdf5.T_NATIVE_DOUBLE
		data = &v
	case []float64:
		if len(v) == 0 {
			return nil
		}
		dtype = gohdf5.T_NATIVE_DOUBLE
		if dspace, err = gohdf5.CreateSimpleDataspace([]uint{uint(len(v))}, nil); err != nil {
			return err
		}
		data = &v[0]
	default:
		return fmt.Errorf("attribute %s: unsupported type %T", a.Name, a.Value)
	}

	if dspace == nil {
		if dspace, err = gohdf5.CreateDataspace(gohdf5.S_SCALAR); err != nil {
			return err
		}
	}
	defer dspace.Close()

	attr, err := loc.CreateAttribute(a.Name, dtype, dspace)
	if err != nil {
		return fmt.Errorf("create attribute %s: %w", a.Name, err)
	}
	defer func() {
		err = errors.Join(err, attr.Close())
	}()
	if err := attr.Write(data, dtype); err != nil {
		return fmt.Errorf("write attribute %s: %w", a.Name, err)
	}
	return nil
}

// chunkRows bounds the chunk height of a dataset.
const chunkRows = 90

func writeDataset(loc groupCreator, ds *odim.Dataset, level int) (err error) {
	dims := []uint{uint(ds.Rows), uint(ds.Cols)}
	dspace, err := gohdf5.CreateSimpleDataspace(dims, nil)
	if err != nil {
		return err
	}
	defer dspace.Close()

	dcpl, err := gohdf5.NewPropList(gohdf5.P_DATASET_CREATE)
	if err != nil {
		return err
	}
	defer dcpl.Close()
	if level > 0 {
		if err := dcpl.SetChunk([]uint{uint(min(ds.Rows, chunkRows)), uint(ds.Cols)}); err != nil {
			return err
		}
		if err := dcpl.SetDeflate(level); err != nil {
			return err
		}
	}

	var (
		dtype *gohdf5.Datatype
		data  any
	)
	switch ds.Bits {
	case 8:
		bytes := make([]uint8, len(ds.Data))
		for i, v := range ds.Data {
			bytes[i] = uint8(v)
		}
		dtype, data = gohdf5.T_NATIVE_UINT8, &bytes
	case 16:
		words := ds.Data
		dtype, data = gohdf5.T_NATIVE_UINT16, &words
	default:
		return fmt.Errorf("unsupported bit depth %d", ds.Bits)
	}

	dset, err := loc.CreateDatasetWith(ds.Name, dtype, dspace, dcpl)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, dset.Close())
	}()
	if err := dset.Write(data); err != nil {
		return err
	}
	for _, a := range ds.Attrs {
		if err := writeAttr(dset, a); err != nil {
			return err
		}
	}
	return nil
}
