package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNodeKind_Valid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind NodeKind
		want bool
	}{
		{KindVertiport, true},
		{KindVertipad, true},
		{KindRooftop, true},
		{KindOther, true},
		{NodeKind(""), false},
		{NodeKind("hangar"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.kind.Valid())
		})
	}
}

func TestNodeStatus_Valid(t *testing.T) {
	t.Parallel()

	assert.True(t, StatusActive.Valid())
	assert.True(t, StatusClosed.Valid())
	assert.False(t, NodeStatus("").Valid())
	assert.False(t, NodeStatus("retired").Valid())
}

func TestPosition_Validate(t *testing.T) {
	t.Parallel()

	alt := 120.0
	negAlt := -5.0

	tests := []struct {
		name    string
		pos     Position
		wantErr bool
	}{
		{"origin", Position{}, false},
		{"san francisco", Position{Latitude: 37.7749, Longitude: -122.4194}, false},
		{"with altitude", Position{Latitude: 37.7749, Longitude: -122.4194, AltitudeMeters: &alt}, false},
		{"lat boundary", Position{Latitude: 90, Longitude: 180}, false},
		{"lat too big", Position{Latitude: 90.01}, true},
		{"lat too small", Position{Latitude: -90.01}, true},
		{"lat NaN", Position{Latitude: math.NaN()}, true},
		{"lon too big", Position{Longitude: 180.5}, true},
		{"lon NaN", Position{Longitude: math.NaN()}, true},
		{"lon infinite", Position{Longitude: math.Inf(1)}, true},
		{"negative altitude", Position{AltitudeMeters: &negAlt}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.pos.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPosition)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNode_Validate(t *testing.T) {
	t.Parallel()

	valid := Node{
		UID:      "vertiport-1",
		Kind:     KindVertiport,
		Status:   StatusActive,
		Position: Position{Latitude: 37.7749, Longitude: -122.4194},
	}
	assert.NoError(t, valid.Validate())

	missing := valid
	missing.UID = ""
	assert.Error(t, missing.Validate())

	badKind := valid
	badKind.Kind = "helipad"
	assert.Error(t, badKind.Validate())

	badStatus := valid
	badStatus.Status = "destroyed"
	assert.Error(t, badStatus.Validate())

	badPos := valid
	badPos.Position.Latitude = 91
	assert.ErrorIs(t, badPos.Validate(), ErrInvalidPosition)
}
