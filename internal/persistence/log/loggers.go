// Package log implements file-backed tick sinks: the canonical CSV
// time-series (the artifact downstream aggregation parses) and a
// zstd-compressed JSONL stream of the same records.
package log

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/klauspost/compress/zstd"

	"bioforge.ai/internal/sim/engine"
)

var csvHeader = []string{
	"tick",
	"stage_id",
	"organisms_json",
	"media_volume_l",
	"media_ph",
	"dissolved_components_json",
	"dissolved_gases_json",
	"asset_states_json",
	"events_json",
}

// CSVWriter writes one row per tick. Every write flushes: the log must be
// durable before the next tick runs.
type CSVWriter struct {
	f *os.File
	w *csv.Writer
}

func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		_ = f.Close()
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return nil, err
	}
	return &CSVWriter{f: f, w: w}, nil
}

func (c *CSVWriter) WriteTick(rec engine.TickRecord) error {
	row := []string{
		strconv.FormatUint(rec.Tick, 10),
		rec.StageID,
		rec.OrganismsJSON,
		formatFloat(rec.MediaVolumeL),
		formatFloat(rec.MediaPH),
		rec.DissolvedComponentsJSON,
		rec.DissolvedGasesJSON,
		rec.AssetStatesJSON,
		rec.EventsJSON,
	}
	if err := c.w.Write(row); err != nil {
		return err
	}
	c.w.Flush()
	return c.w.Error()
}

func (c *CSVWriter) Close() error {
	c.w.Flush()
	if err := c.w.Error(); err != nil {
		_ = c.f.Close()
		return err
	}
	return c.f.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// JSONLZstdWriter writes one JSON line per tick through a zstd encoder.
type JSONLZstdWriter struct {
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
}

func NewJSONLZstdWriter(path string) (*JSONLZstdWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &JSONLZstdWriter{
		f:   f,
		enc: enc,
		w:   bufio.NewWriterSize(enc, 128*1024),
	}, nil
}

func (l *JSONLZstdWriter) WriteTick(rec engine.TickRecord) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if _, err := l.w.Write(b); err != nil {
		return err
	}
	if err := l.w.WriteByte('\n'); err != nil {
		return err
	}
	return l.w.Flush()
}

func (l *JSONLZstdWriter) Close() error {
	var firstErr error
	if err := l.w.Flush(); err != nil {
		firstErr = err
	}
	if err := l.enc.Close(); firstErr == nil && err != nil {
		firstErr = err
	}
	if err := l.f.Close(); firstErr == nil && err != nil {
		firstErr = err
	}
	return firstErr
}

// ReadJSONL decodes every record of a finished compressed run log.
func ReadJSONL(path string) ([]engine.TickRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var records []engine.TickRecord
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		if len(sc.Bytes()) == 0 {
			continue
		}
		var rec engine.TickRecord
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, line, err)
		}
		records = append(records, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
