package compression

import (
	"bytes"
	"testing"
)

func TestGzipCompressor(t *testing.T) {
	c := NewGzipCompressor()

	original := []byte("Hello, World! This is a test string for compression.")

	compressed, err := c.Compress(original)
	if err != nil {
		t.Fatalf("Compress failed: %v", err)
	}

	decompressed, err := c.Decompress(compressed)
	if err != nil {
		t.Fatalf("Decompress failed: %v", err)
	}

	if !bytes.Equal(original, decompressed) {
		t.Error("Decompressed data doesn't match original")
	}

	if c.Type() != TypeGzip {
		t.Errorf("Expected TypeGzip, got %v", c.Type())
	}

	if c.Name() != "gzip" {
		t.Errorf("Expected 'gzip', got %s", c.Name())
	}
}

func TestZstdCompressor(t *testing.T) {
	c, err := NewZstdCompressor()
	if err != nil {
		t.Fatalf("Failed to create zstd compressor: %v", err)
	}
	defer c.Close()

	original := []byte("Hello, World! This is a test string for compression.")

	compressed, err := c.Compress(original)
	if err != nil {
		t.Fatalf("Compress failed: %v", err)
	}

	decompressed, err := c.Decompress(compressed)
	if err != nil {
		t.Fatalf("Decompress failed: %v", err)
	}

	if !bytes.Equal(original, decompressed) {
		t.Error("Decompressed data doesn't match original")
	}

	if c.Type() != TypeZstd {
		t.Errorf("Expected TypeZstd, got %v", c.Type())
	}

	if c.Name() != "zstd" {
		t.Errorf("Expected 'zstd', got %s", c.Name())
	}
}

func TestNoOpCompressor(t *testing.T) {
	c := NewNoOpCompressor()

	original := []byte("Hello, World!")

	compressed, err := c.Compress(original)
	if err != nil {
		t.Fatalf("Compress failed: %v", err)
	}

	if !bytes.Equal(original, compressed) {
		t.Error("NoOp compressor should return data unchanged")
	}

	decompressed, err := c.Decompress(compressed)
	if err != nil {
		t.Fatalf("Decompress failed: %v", err)
	}

	if !bytes.Equal(original, decompressed) {
		t.Error("NoOp decompressor should return data unchanged")
	}

	if c.Type() != TypeNone {
		t.Errorf("Expected TypeNone, got %v", c.Type())
	}
}

func TestDefault(t *testing.T) {
	comp := Default()
	if comp == nil {
		t.Fatal("Default() returned nil")
	}

	original := []byte("round-trip through the plan cache's default compressor")
	compressed, err := comp.Compress(original)
	if err != nil {
		t.Fatalf("Compress failed: %v", err)
	}
	decompressed, err := comp.Decompress(compressed)
	if err != nil {
		t.Fatalf("Decompress failed: %v", err)
	}
	if !bytes.Equal(original, decompressed) {
		t.Error("Decompressed data doesn't match original")
	}

	if comp.Type() != TypeZstd {
		t.Errorf("Expected Default() to prefer zstd, got %v", comp.Type())
	}
}

func BenchmarkGzipCompress(b *testing.B) {
	c := NewGzipCompressor()
	data := make([]byte, 10000)
	for i := range data {
		data[i] = byte(i % 256)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Compress(data)
	}
}

func BenchmarkZstdCompress(b *testing.B) {
	c, _ := NewZstdCompressor()
	defer c.Close()
	data := make([]byte, 10000)
	for i := range data {
		data[i] = byte(i % 256)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Compress(data)
	}
}

func BenchmarkGzipDecompress(b *testing.B) {
	c := NewGzipCompressor()
	data := make([]byte, 10000)
	for i := range data {
		data[i] = byte(i % 256)
	}
	compressed, _ := c.Compress(data)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Decompress(compressed)
	}
}

func BenchmarkZstdDecompress(b *testing.B) {
	c, _ := NewZstdCompressor()
	defer c.Close()
	data := make([]byte, 10000)
	for i := range data {
		data[i] = byte(i % 256)
	}
	compressed, _ := c.Compress(data)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Decompress(compressed)
	}
}
