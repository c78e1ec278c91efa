package feedcache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newslens/newslens/internal/news"
)

func makeArticles(sourceID string, n int) []news.Article {
	base := time.Date(2025, 11, 3, 8, 0, 0, 0, time.UTC)
	articles := make([]news.Article, 0, n)
	for i := 0; i < n; i++ {
		articles = append(articles, news.Article{
			Title:       fmt.Sprintf("Headline %d from %s", i, sourceID),
			Description: fmt.Sprintf("A longer description of story number %d covering the day's events in detail.", i),
			URL:         fmt.Sprintf("https://example.com/%s/story-%d", sourceID, i),
			PublishedAt: base.Add(time.Duration(i) * time.Minute),
			SourceID:    sourceID,
			Lean:        news.LeanFor(sourceID),
			Author:      "Staff Writer",
		})
	}
	return articles
}

func TestCompressRoundTrip(t *testing.T) {
	codec := NewCodec()
	articles := makeArticles("bbc-news", 100)

	res, err := codec.Compress(articles)
	require.NoError(t, err)
	require.True(t, res.Compressed, "100 similar articles should compress well")

	var got []news.Article
	require.NoError(t, codec.Decompress(res.Data, res.Compressed, &got))
	assert.Equal(t, articles, got)
}

func TestCompressSmallPayloadStaysRaw(t *testing.T) {
	codec := NewCodec()

	res, err := codec.Compress([]news.Article{})
	require.NoError(t, err)
	assert.False(t, res.Compressed, "gzip overhead should disqualify tiny payloads")
	assert.Equal(t, res.OriginalSize, res.StoredSize)
	assert.Equal(t, 1.0, res.Ratio)

	var got []news.Article
	require.NoError(t, codec.Decompress(res.Data, res.Compressed, &got))
	assert.Empty(t, got)
}

func TestCompressionThresholdAndMonotonicity(t *testing.T) {
	codec := NewCodec()

	payloads := []any{
		makeArticles("reuters", 1),
		makeArticles("reuters", 10),
		makeArticles("reuters", 250),
		map[string]string{"k": "v"},
		"short",
	}
	for i, p := range payloads {
		res, err := codec.Compress(p)
		require.NoError(t, err, "payload %d", i)
		assert.LessOrEqual(t, res.StoredSize, res.OriginalSize, "payload %d", i)
		if res.Compressed {
			assert.Less(t, res.Ratio, compressionThreshold, "payload %d", i)
			assert.Less(t, float64(res.StoredSize)/float64(res.OriginalSize), compressionThreshold, "payload %d", i)
		} else {
			assert.Equal(t, res.OriginalSize, res.StoredSize, "payload %d", i)
		}
	}
}

func TestDecompressCorruptPayload(t *testing.T) {
	codec := NewCodec()

	var out []news.Article
	err := codec.Decompress([]byte("definitely not a gzip stream"), true, &out)
	require.Error(t, err)
	var derr *DecompressError
	require.ErrorAs(t, err, &derr)
	assert.NotEmpty(t, derr.Reason)

	err = codec.Decompress([]byte("{broken json"), false, &out)
	require.Error(t, err)
	require.ErrorAs(t, err, &derr)
}

func TestSmartDecompressLegacyRawJSON(t *testing.T) {
	codec := NewCodec()
	articles := makeArticles("cnn", 3)

	// Entries written before compression support are bare JSON.
	raw, err := codec.Compress(articles[:1])
	require.NoError(t, err)
	require.False(t, raw.Compressed)

	var got []news.Article
	require.NoError(t, codec.SmartDecompress(raw.Data, &got))
	assert.Equal(t, articles[:1], got)
}

func TestSmartDecompressCompressedPayload(t *testing.T) {
	codec := NewCodec()
	articles := makeArticles("cnn", 80)

	res, err := codec.Compress(articles)
	require.NoError(t, err)
	require.True(t, res.Compressed)

	var got []news.Article
	require.NoError(t, codec.SmartDecompress(res.Data, &got))
	assert.Equal(t, articles, got)
}

func TestSmartDecompressUnknownFormat(t *testing.T) {
	codec := NewCodec()

	var out []news.Article
	err := codec.SmartDecompress([]byte{0x00, 0x01, 0x02}, &out)
	var derr *DecompressError
	require.ErrorAs(t, err, &derr)
}

func TestCodecMetrics(t *testing.T) {
	codec := NewCodec()
	articles := makeArticles("fox-news", 60)

	res, err := codec.Compress(articles)
	require.NoError(t, err)
	_, err = codec.Compress([]news.Article{})
	require.NoError(t, err)

	var out []news.Article
	require.NoError(t, codec.Decompress(res.Data, res.Compressed, &out))
	require.Error(t, codec.Decompress([]byte("junk"), true, &out))

	m := codec.Metrics()
	assert.Equal(t, uint64(2), m.CompressCalls)
	assert.Equal(t, uint64(2), m.DecompressCalls)
	assert.Equal(t, 0.5, m.CompressionRate, "one of two compresses chose the compressed form")
	assert.Equal(t, 0.5, m.DecompressSuccessRate)
	assert.Greater(t, m.OriginalBytes, m.StoredBytes)
}
