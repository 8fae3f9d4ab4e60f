package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/countdown/internal/domain"
	"github.com/hammamikhairi/countdown/internal/logger"
)

func TestParseKeywords(t *testing.T) {
	p := NewParser(logger.New(logger.LevelOff, nil))

	tests := []struct {
		input string
		want  domain.IntentType
	}{
		{"start", domain.IntentStart},
		{"GO", domain.IntentStart},
		{"cancel", domain.IntentCancel},
		{"stop", domain.IntentCancel},
		{"reset", domain.IntentReset},
		{"status", domain.IntentStatus},
		{"?", domain.IntentHelp},
		{"quit", domain.IntentQuit},
		{"  q  ", domain.IntentQuit},
		{"", domain.IntentUnknown},
		{"make tea", domain.IntentUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			intent, err := p.Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, intent.Type)
		})
	}
}

func TestParseSelect(t *testing.T) {
	p := NewParser(logger.New(logger.LevelOff, nil))

	tests := []struct {
		input          string
		hour, min, sec int
	}{
		{"set 1:02:03", 1, 2, 3},
		{"select 5m", 0, 5, 0},
		{"pick 1 2 3", 1, 2, 3},
		{"90", 0, 1, 30},
		{"02:30", 0, 2, 30},
		{"1h30m", 1, 30, 0},
		{"set 1.5s", 0, 0, 1},
		{"100:00:00", 100, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			intent, err := p.Parse(tt.input)
			require.NoError(t, err)
			require.Equal(t, domain.IntentSelect, intent.Type)
			assert.Equal(t, tt.hour, intent.Hour)
			assert.Equal(t, tt.min, intent.Minute)
			assert.Equal(t, tt.sec, intent.Second)
		})
	}
}

func TestParseSelectInvalid(t *testing.T) {
	p := NewParser(logger.New(logger.LevelOff, nil))

	for _, in := range []string{"set soon", "set 1:75:00", "set 1:2:3:4", "set -5m", "set 1 x 3"} {
		t.Run(in, func(t *testing.T) {
			_, err := p.Parse(in)
			assert.ErrorIs(t, err, domain.ErrInvalidDuration)
		})
	}
}

func TestParseSelection(t *testing.T) {
	h, m, s, err := ParseSelection("3661")
	require.NoError(t, err)
	assert.Equal(t, [3]int{1, 1, 1}, [3]int{h, m, s})

	_, _, _, err = ParseSelection("")
	assert.ErrorIs(t, err, domain.ErrInvalidDuration)
}

func TestParseSelectionRejectsOverflow(t *testing.T) {
	tests := []struct {
		input string
		ok    bool
	}{
		{"99999999999", false},
		{"9223372037", false},
		{"9223372036", true},
		{"2562048:00:00", false},
		{"2562047:59:59", false},
		{"2562047:00:00", true},
		{"99999999999999999999:00:00", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			h, m, s, err := ParseSelection(tt.input)
			if !tt.ok {
				assert.ErrorIs(t, err, domain.ErrInvalidDuration)
				return
			}
			require.NoError(t, err)
			assert.Positive(t, domain.SelectedDuration(h, m, s))
		})
	}
}

func TestParseOverlongSelectionIsAnError(t *testing.T) {
	p := NewParser(logger.New(logger.LevelOff, nil))
	_, err := p.Parse("set 2562048:00:00")
	assert.ErrorIs(t, err, domain.ErrInvalidDuration)
}
