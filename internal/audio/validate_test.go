package audio

import (
	"errors"
	"testing"
)

func TestValidateJapaneseText(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr error
	}{
		{
			name: "hiragana word",
			text: "すし",
		},
		{
			name: "kanji word",
			text: "歴史",
		},
		{
			name: "katakana word",
			text: "コーヒー",
		},
		{
			name: "sentence with punctuation",
			text: "歴史が好きです。",
		},
		{
			name:    "empty text",
			text:    "",
			wantErr: ErrEmptyText,
		},
		{
			name:    "whitespace only",
			text:    "   \t\n",
			wantErr: ErrEmptyText,
		},
		{
			name:    "English text",
			text:    "Hello world",
			wantErr: ErrNotJapaneseText,
		},
		{
			name:    "numbers and punctuation only",
			text:    "123。",
			wantErr: ErrNotJapaneseText,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateJapaneseText(tt.text)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateJapaneseText(%q) error = %v, want %v", tt.text, err, tt.wantErr)
			}
		})
	}
}
