package raytrace

import (
	"encoding/binary"
	"encoding/json"

	tiledb "github.com/TileDB-Inc/TileDB-Go"
)

// PingRecord is the JSON wire shape of a Ping, per SPEC_FULL.md 11.1: a
// flat record a caller assembles from whatever upstream format they have
// (a GSF-style decoder, a CSV export, a test fixture) and converts with
// ToPing. Field names are capitalised exported JSON keys rather than the
// teacher's raw snake_case, matching encoding/json's default behaviour
// with no extra struct tags since this format has no TileDB schema of
// its own.
type PingRecord struct {
	TwoWayTravelTime  float64
	SurfaceSoundSpeed float64
	TransducerDepth   float64
	AlongTrackAngle   float64
	AcrossTrackAngle  float64
}

// ToPing validates and converts a PingRecord into a Ping.
func (pr PingRecord) ToPing() (*Ping, error) {
	return NewPing(pr.TwoWayTravelTime, pr.SurfaceSoundSpeed, pr.TransducerDepth, pr.AlongTrackAngle, pr.AcrossTrackAngle)
}

// SvpRecord is the JSON wire shape of a SoundVelocityProfile.
type SvpRecord struct {
	Depth []float64
	Speed []float64
}

// ToSvp validates and converts an SvpRecord into a SoundVelocityProfile.
func (sr SvpRecord) ToSvp() (*SoundVelocityProfile, error) {
	return NewSoundVelocityProfile(sr.Depth, sr.Speed)
}

// PingSet is a batch of pings traced against a single SVP and pair of
// rotation matrices, the unit of work for batch.go's worker pool.
type PingSet struct {
	Svp        SvpRecord
	Boresight  [9]float64
	Imu2Nav    [9]float64
	Pings      []PingRecord
}

// WriteJson serialises data to a JSON file, local or on an object store
// such as s3, via TileDB's VFS abstraction. Grounded on the teacher's
// WriteJson (json.go): same config-fallback and VFS-write pattern, now
// generalised from GSF decode output to any JSON-able value.
func WriteJson(fileUri string, configUri string, data any) (int, error) {
	var config *tiledb.Config
	var err error

	if configUri == "" {
		config, err = tiledb.NewConfig()
		if err != nil {
			return 0, err
		}
	} else {
		config, err = tiledb.LoadConfig(configUri)
		if err != nil {
			return 0, err
		}
	}
	defer config.Free()

	ctx, err := tiledb.NewContext(config)
	if err != nil {
		return 0, err
	}
	defer ctx.Free()

	vfs, err := tiledb.NewVFS(ctx, config)
	if err != nil {
		return 0, err
	}
	defer vfs.Free()

	stream, err := vfs.Open(fileUri, tiledb.TILEDB_VFS_WRITE)
	if err != nil {
		return 0, err
	}
	defer stream.Close()

	jsn, err := json.MarshalIndent(data, "", "    ")
	if err != nil {
		return 0, err
	}

	bytesWritten, err := stream.Write(jsn)
	if err != nil {
		return 0, err
	}

	return bytesWritten, nil
}

// ReadPingSet reads and decodes a PingSet from a JSON file, local or on
// an object store, via TileDB's VFS abstraction.
func ReadPingSet(fileUri string, configUri string) (*PingSet, error) {
	var config *tiledb.Config
	var err error

	if configUri == "" {
		config, err = tiledb.NewConfig()
		if err != nil {
			return nil, err
		}
	} else {
		config, err = tiledb.LoadConfig(configUri)
		if err != nil {
			return nil, err
		}
	}
	defer config.Free()

	ctx, err := tiledb.NewContext(config)
	if err != nil {
		return nil, err
	}
	defer ctx.Free()

	vfs, err := tiledb.NewVFS(ctx, config)
	if err != nil {
		return nil, err
	}
	defer vfs.Free()

	size, err := vfs.FileSize(fileUri)
	if err != nil {
		return nil, err
	}

	stream, err := vfs.Open(fileUri, tiledb.TILEDB_VFS_READ)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	buf := make([]byte, size)
	if err := binary.Read(stream, binary.BigEndian, &buf); err != nil {
		return nil, err
	}

	var ps PingSet
	if err := json.Unmarshal(buf, &ps); err != nil {
		return nil, err
	}

	return &ps, nil
}

// JsonDumps constructs a JSON string of the supplied data.
func JsonDumps(data any) (string, error) {
	jsn, err := json.Marshal(data)
	if err != nil {
		return "", err
	}

	return string(jsn), nil
}

// JsonIndentDumps constructs a JSON string of the supplied data using an
// indentation of four spaces.
func JsonIndentDumps(data any) (string, error) {
	jsn, err := json.MarshalIndent(data, "", "    ")
	if err != nil {
		return "", err
	}

	return string(jsn), nil
}
