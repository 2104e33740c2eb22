package base64_test

import (
	"errors"
	"stayfinder/shared/base64"
	"testing"
)

const pixelPNG = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNk+M9QDwADhgGAWjR9awAAAABJRU5ErkJggg=="

func TestGetContentType(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "valid image png", input: pixelPNG, expected: "image/png"},
		{name: "valid text plain", input: "data:text/plain;base64,SGVsbG8gV29ybGQ=", expected: "text/plain"},
		{name: "empty string", input: "", expected: ""},
		{name: "no data prefix", input: "image/png;base64,iVBORw0KGgo=", expected: ""},
		{name: "no base64 marker", input: "data:image/png,iVBORw0KGgo=", expected: ""},
		{name: "only data prefix", input: "data:", expected: ""},
		{name: "empty media type", input: "data:;base64,SGVsbG8=", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := base64.GetContentType(tt.input)
			if result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		contentType string
		expectError bool
	}{
		{name: "valid png", input: pixelPNG, contentType: "image/png"},
		{name: "not a data url", input: "hello", expectError: true},
		{name: "corrupted payload", input: "data:image/png;base64,@@@", expectError: true},
		{name: "empty payload", input: "data:image/png;base64,", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			contentType, data, err := base64.Decode(tt.input)

			if tt.expectError {
				if !errors.Is(err, base64.ErrInvalidDataURL) {
					t.Errorf("expected ErrInvalidDataURL, got %v", err)
				}

				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if contentType != tt.contentType {
				t.Errorf("expected content type %q, got %q", tt.contentType, contentType)
			}

			if len(data) == 0 {
				t.Error("expected decoded bytes")
			}
		})
	}
}

func TestExtension(t *testing.T) {
	tests := map[string]string{
		"image/png":       ".png",
		"image/jpeg":      ".jpg",
		"image/webp":      ".webp",
		"application/pdf": ".bin",
	}

	for contentType, expected := range tests {
		if got := base64.Extension(contentType); got != expected {
			t.Errorf("Extension(%q) = %q, want %q", contentType, got, expected)
		}
	}
}
