package interaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseInput(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected *KeyEvent
	}{
		{
			name:     "Regular char",
			input:    []byte{'a'},
			expected: &KeyEvent{Key: 'a', Type: KeyChar},
		},
		{
			name:     "Escape",
			input:    []byte{27},
			expected: &KeyEvent{Key: 27, Type: KeyEscape},
		},
		{
			name:     "Left arrow",
			input:    []byte{27, '[', 'D'},
			expected: &KeyEvent{Type: KeyLeft},
		},
		{
			name:     "Right arrow",
			input:    []byte{27, '[', 'C'},
			expected: &KeyEvent{Type: KeyRight},
		},
		{
			name:     "Up arrow ignored",
			input:    []byte{27, '[', 'A'},
			expected: nil,
		},
		{
			name:     "Empty",
			input:    nil,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseInput(tt.input))
		})
	}
}

func TestKeyEvent_IsQuit(t *testing.T) {
	assert.True(t, KeyEvent{Key: 'q', Type: KeyChar}.IsQuit())
	assert.True(t, KeyEvent{Key: 'Q', Type: KeyChar}.IsQuit())
	assert.True(t, KeyEvent{Key: keyInterrupt, Type: KeyChar}.IsQuit())
	assert.True(t, KeyEvent{Key: 27, Type: KeyEscape}.IsQuit())
	assert.False(t, KeyEvent{Key: 'r', Type: KeyChar}.IsQuit())
	assert.False(t, KeyEvent{Type: KeyLeft}.IsQuit())
}
