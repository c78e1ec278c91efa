package feedcache

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/VictoriaMetrics/metrics"
)

// compressionThreshold is the stored/original ratio above which the codec
// keeps the raw form. Gains under 10% are not worth paying for decompression
// on every read.
const compressionThreshold = 0.9

// Compressed is the result of one Compress call.
type Compressed struct {
	Data         []byte
	Compressed   bool
	OriginalSize int64
	StoredSize   int64
	Ratio        float64
}

// DecompressError reports an unusable payload. It is returned, never
// panicked, so the store can treat the entry as a miss.
type DecompressError struct {
	Reason string
	Err    error
}

func (e *DecompressError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decompress failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("decompress failed: %s", e.Reason)
}

func (e *DecompressError) Unwrap() error { return e.Err }

// Codec turns JSON-serializable values into compact payloads and back.
// Compression is best-effort: on a gzip failure or insufficient savings the
// raw serialized form is stored instead.
type Codec struct {
	compressCalls      atomic.Uint64
	compressChosen     atomic.Uint64
	decompressCalls    atomic.Uint64
	decompressFailures atomic.Uint64
	originalBytes      atomic.Int64
	storedBytes        atomic.Int64
}

// CodecMetrics is a read-only snapshot of cumulative codec activity.
type CodecMetrics struct {
	CompressCalls         uint64  `json:"compressCalls"`
	DecompressCalls       uint64  `json:"decompressCalls"`
	OriginalBytes         int64   `json:"originalBytes"`
	StoredBytes           int64   `json:"storedBytes"`
	CompressionRate       float64 `json:"compressionRate"`
	DecompressSuccessRate float64 `json:"decompressSuccessRate"`
}

func NewCodec() *Codec {
	return &Codec{}
}

// Compress serializes v and gzips it, keeping the compressed form only when
// it saves at least 10% over the raw serialization.
func (c *Codec) Compress(v any) (Compressed, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return Compressed{}, fmt.Errorf("payload not serializable: %w", err)
	}

	c.compressCalls.Add(1)
	metrics.GetOrCreateCounter("feedcache_codec_compress_total").Inc()

	originalSize := int64(len(raw))
	result := Compressed{
		Data:         raw,
		Compressed:   false,
		OriginalSize: originalSize,
		StoredSize:   originalSize,
		Ratio:        1.0,
	}

	if packed, err := gzipBytes(raw); err == nil && originalSize > 0 {
		ratio := float64(len(packed)) / float64(originalSize)
		if ratio < compressionThreshold {
			result.Data = packed
			result.Compressed = true
			result.StoredSize = int64(len(packed))
			result.Ratio = ratio
			c.compressChosen.Add(1)
			metrics.GetOrCreateCounter("feedcache_codec_compressed_chosen_total").Inc()
		}
	}

	c.originalBytes.Add(result.OriginalSize)
	c.storedBytes.Add(result.StoredSize)
	return result, nil
}

// Decompress reverses Compress into out. wasCompressed selects the path; any
// failure yields a DecompressError.
func (c *Codec) Decompress(data []byte, wasCompressed bool, out any) error {
	c.decompressCalls.Add(1)
	metrics.GetOrCreateCounter("feedcache_codec_decompress_total").Inc()

	var raw []byte
	if wasCompressed {
		unpacked, err := gunzipBytes(data)
		if err != nil {
			return c.fail(&DecompressError{Reason: "gzip stream unreadable", Err: err})
		}
		raw = unpacked
	} else {
		raw = data
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return c.fail(&DecompressError{Reason: "payload is not valid JSON", Err: err})
	}
	return nil
}

// formatStrategy is one step of SmartDecompress's detection chain.
type formatStrategy struct {
	name   string
	decode func(data []byte, out any) error
}

// formatStrategies are tried in order. Raw JSON comes first: entries written
// before compression support existed are plain JSON, and a direct parse is
// the cheapest check.
var formatStrategies = []formatStrategy{
	{
		name: "raw-json",
		decode: func(data []byte, out any) error {
			return json.Unmarshal(data, out)
		},
	},
	{
		name: "gzip-json",
		decode: func(data []byte, out any) error {
			raw, err := gunzipBytes(data)
			if err != nil {
				return err
			}
			return json.Unmarshal(raw, out)
		},
	},
}

// SmartDecompress decodes a payload whose compressed flag is unknown or was
// lost, trying each known format in order.
func (c *Codec) SmartDecompress(data []byte, out any) error {
	c.decompressCalls.Add(1)
	metrics.GetOrCreateCounter("feedcache_codec_decompress_total").Inc()

	var lastErr error
	for _, s := range formatStrategies {
		err := s.decode(data, out)
		if err == nil {
			return nil
		}
		lastErr = fmt.Errorf("%s: %w", s.name, err)
	}
	return c.fail(&DecompressError{Reason: "no known format matched", Err: lastErr})
}

// Metrics returns cumulative codec activity. The snapshot never affects
// codec behavior.
func (c *Codec) Metrics() CodecMetrics {
	calls := c.compressCalls.Load()
	dCalls := c.decompressCalls.Load()

	m := CodecMetrics{
		CompressCalls:   calls,
		DecompressCalls: dCalls,
		OriginalBytes:   c.originalBytes.Load(),
		StoredBytes:     c.storedBytes.Load(),
	}
	if calls > 0 {
		m.CompressionRate = float64(c.compressChosen.Load()) / float64(calls)
	}
	if dCalls > 0 {
		m.DecompressSuccessRate = float64(dCalls-c.decompressFailures.Load()) / float64(dCalls)
	}
	return m
}

func (c *Codec) fail(err *DecompressError) error {
	c.decompressFailures.Add(1)
	metrics.GetOrCreateCounter("feedcache_codec_decompress_failures_total").Inc()
	return err
}

func gzipBytes(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func gunzipBytes(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
