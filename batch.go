package raytrace

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"

	"github.com/alitto/pond"
	tiledb "github.com/TileDB-Inc/TileDB-Go"
	stgpsr "github.com/yuin/stagparser"
)

// RayTraceBatch holds the traced output for every ping in a PingSet, laid
// out column-wise for bulk export. Grounded on the teacher's
// SoundVelocityProfile (svp.go): a struct-of-slices shape carrying tiledb
// struct tags, one row per input record.
type RayTraceBatch struct {
	TwoWayTravelTime []float64 `tiledb:"dtype=float64,ftype=attr" filters:"zstd(level=16)"`
	X                []float64 `tiledb:"dtype=float64,ftype=attr" filters:"zstd(level=16)"`
	Y                []float64 `tiledb:"dtype=float64,ftype=attr" filters:"zstd(level=16)"`
	Z                []float64 `tiledb:"dtype=float64,ftype=attr" filters:"zstd(level=16)"`
}

// TraceBatch runs RayTrace over every ping in a PingSet and collects the
// results as a column-oriented RayTraceBatch. A failure on one ping does
// not stop the batch; its error is returned alongside the partial batch
// so a caller can decide whether to proceed.
func TraceBatch(set *PingSet) (*RayTraceBatch, error) {
	svp, err := set.Svp.ToSvp()
	if err != nil {
		return nil, err
	}

	boresight := NewRotation(set.Boresight)
	imu2nav := NewRotation(set.Imu2Nav)

	n := len(set.Pings)
	batch := &RayTraceBatch{
		TwoWayTravelTime: make([]float64, 0, n),
		X:                make([]float64, 0, n),
		Y:                make([]float64, 0, n),
		Z:                make([]float64, 0, n),
	}

	var firstErr error
	for _, pr := range set.Pings {
		ping, err := pr.ToPing()
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		pt, err := RayTrace(ping, svp, boresight, imu2nav)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		batch.TwoWayTravelTime = append(batch.TwoWayTravelTime, ping.TwoWayTravelTime())
		batch.X = append(batch.X, pt.X)
		batch.Y = append(batch.Y, pt.Y)
		batch.Z = append(batch.Z, pt.Z)
	}

	return batch, firstErr
}

// TraceBatchFiles reads and traces a list of ping-set JSON files concurrently
// using a bounded worker pool, writing each result to a TileDB array under
// outDirUri. Grounded on the teacher's convert_gsf_list (cmd/main.go): a
// fixed pool sized to 2*NumCPU, cancelled on SIGINT, one submission per
// input file.
func TraceBatchFiles(ctx context.Context, uris []string, configUri, outDirUri string, workers int) []error {
	pool := pond.New(workers, 0, pond.MinWorkers(workers), pond.Context(ctx))
	defer pool.StopAndWait()

	errs := make([]error, len(uris))
	for i, u := range uris {
		idx, fileUri := i, u
		pool.Submit(func() {
			errs[idx] = traceBatchFile(fileUri, configUri, outDirUri)
		})
	}

	return errs
}

// TraceBatchFile reads a ping-set JSON file, traces every ping in it, and
// writes the resulting RayTraceBatch to outDirUri/<basename>.tiledb. It
// returns the batch alongside any write error so a caller can report row
// counts even when the array write failed. If any ping fails to trace,
// nothing is written: the partial batch is returned with that error.
func TraceBatchFile(fileUri, configUri, outDirUri string) (*RayTraceBatch, error) {
	set, err := ReadPingSet(fileUri, configUri)
	if err != nil {
		return nil, err
	}

	batch, err := TraceBatch(set)
	if err != nil {
		return batch, err
	}

	var config *tiledb.Config
	if configUri == "" {
		config, err = tiledb.NewConfig()
	} else {
		config, err = tiledb.LoadConfig(configUri)
	}
	if err != nil {
		return batch, err
	}
	defer config.Free()

	tdbCtx, err := tiledb.NewContext(config)
	if err != nil {
		return batch, err
	}
	defer tdbCtx.Free()

	_, file := filepath.Split(fileUri)
	outUri := filepath.Join(outDirUri, file+".tiledb")

	return batch, batch.ToTileDB(outUri, tdbCtx)
}

func traceBatchFile(fileUri, configUri, outDirUri string) error {
	_, err := TraceBatchFile(fileUri, configUri, outDirUri)
	return err
}

// rayTraceBatchTiledbArray establishes the schema and array on disk/object
// store for a RayTraceBatch. Grounded on the teacher's svp_tiledb_array
// (svp.go): a single dense dimension indexed by row number.
func (b *RayTraceBatch) rayTraceBatchTiledbArray(fileUri string, ctx *tiledb.Context, nrows uint64) error {
	domain, err := tiledb.NewDomain(ctx)
	if err != nil {
		return errors.Join(ErrCreateRtTdb, err)
	}
	defer domain.Free()

	dim, err := tiledb.NewDimension(ctx, "__tiledb_rows", tiledb.TILEDB_UINT64, []uint64{0, nrows - 1}, nrows)
	if err != nil {
		return errors.Join(ErrCreateRtTdb, err)
	}
	defer dim.Free()

	err = domain.AddDimensions(dim)
	if err != nil {
		return errors.Join(ErrCreateRtTdb, err)
	}

	schema, err := tiledb.NewArraySchema(ctx, tiledb.TILEDB_DENSE)
	if err != nil {
		return errors.Join(ErrCreateRtTdb, err)
	}
	defer schema.Free()

	err = schema.SetDomain(domain)
	if err != nil {
		return errors.Join(ErrCreateRtTdb, err)
	}

	err = schema.SetCellOrder(tiledb.TILEDB_ROW_MAJOR)
	if err != nil {
		return errors.Join(ErrCreateRtTdb, err)
	}

	err = schema.SetTileOrder(tiledb.TILEDB_ROW_MAJOR)
	if err != nil {
		return errors.Join(ErrCreateRtTdb, err)
	}

	err = b.schemaAttrs(schema, ctx)
	if err != nil {
		return err
	}

	array, err := tiledb.NewArray(ctx, fileUri)
	if err != nil {
		return errors.Join(ErrCreateRtTdb, err)
	}
	defer array.Free()

	err = array.Create(schema)
	if err != nil {
		return errors.Join(ErrCreateRtTdb, err)
	}

	return nil
}

// schemaAttrs establishes the tiledb attributes for the RayTraceBatch struct.
func (b *RayTraceBatch) schemaAttrs(schema *tiledb.ArraySchema, ctx *tiledb.Context) error {
	values := reflect.ValueOf(b).Elem()
	types := values.Type()
	filtDefs, _ := stgpsr.ParseStruct(b, "filters")
	tdbDefs, _ := stgpsr.ParseStruct(b, "tiledb")

	for i := 0; i < values.NumField(); i++ {
		name := types.Field(i).Name
		fieldFiltDefs := filtDefs[name]

		fieldTdbDefs := make(map[string]stgpsr.Definition)
		for _, v := range tdbDefs[name] {
			fieldTdbDefs[v.Name()] = v
		}

		def, status := fieldTdbDefs["ftype"]
		if !status {
			return errors.Join(ErrCreateRtTdb, errors.New("ftype tag not found"))
		}
		ftype, _ := def.Attribute("ftype")
		if ftype == "dim" {
			continue
		}

		if err := CreateAttr(name, fieldFiltDefs, fieldTdbDefs, schema, ctx); err != nil {
			return errors.Join(ErrCreateRtTdb, err)
		}
	}

	return nil
}

// ToTileDB writes the batch to a dense TileDB array at fileUri. Grounded on
// the teacher's SoundVelocityProfile.ToTileDB (svp.go), generalised to use
// setStructFieldBuffers (tiledb.go) instead of one SetDataBuffer call per
// field, since RayTraceBatch's columns are uniformly []float64.
func (b *RayTraceBatch) ToTileDB(fileUri string, ctx *tiledb.Context) error {
	nrows := uint64(len(b.X))
	if nrows == 0 {
		return nil
	}

	if err := b.rayTraceBatchTiledbArray(fileUri, ctx, nrows); err != nil {
		return err
	}

	array, err := ArrayOpen(ctx, fileUri, tiledb.TILEDB_WRITE)
	if err != nil {
		return errors.Join(ErrWriteRtTdb, err)
	}
	defer array.Free()
	defer array.Close()

	query, err := tiledb.NewQuery(ctx, array)
	if err != nil {
		return errors.Join(ErrWriteRtTdb, err)
	}
	defer query.Free()

	if err := query.SetLayout(tiledb.TILEDB_ROW_MAJOR); err != nil {
		return errors.Join(ErrWriteRtTdb, err)
	}

	if err := setStructFieldBuffers(query, b); err != nil {
		return errors.Join(ErrWriteRtTdb, err)
	}

	subarr, err := array.NewSubarray()
	if err != nil {
		return errors.Join(ErrWriteRtTdb, err)
	}
	defer subarr.Free()

	rng := tiledb.MakeRange(uint64(0), nrows-1)
	if err := subarr.AddRangeByName("__tiledb_rows", rng); err != nil {
		return errors.Join(ErrWriteRtTdb, err)
	}
	if err := query.SetSubarray(subarr); err != nil {
		return errors.Join(ErrWriteRtTdb, err)
	}

	if err := query.Submit(); err != nil {
		return errors.Join(ErrWriteRtTdb, err)
	}

	return query.Finalize()
}
