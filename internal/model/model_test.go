package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var study = ActivityCategory{Name: "Study", Color: Color{Blue: 1, Opacity: 1}}

func TestHourMapValidate(t *testing.T) {
	assert.NoError(t, HourMap{0: study, 23: study}.Validate())
	assert.Error(t, HourMap{24: study}.Validate())
	assert.Error(t, HourMap{-1: study}.Validate())
	assert.Error(t, HourMap{9: {Name: " ", Color: Color{Opacity: 1}}}.Validate())
	assert.Error(t, HourMap{9: {Name: "x", Color: Color{Red: 1.5}}}.Validate())
}

func TestHourMapMergeKeepsMissingHours(t *testing.T) {
	other := ActivityCategory{Name: "Gym", Color: Color{Red: 1, Opacity: 1}}
	merged := HourMap{9: study, 10: study}.Merge(HourMap{10: other})
	assert.Equal(t, study, merged[9])
	assert.Equal(t, other, merged[10])
	assert.Len(t, merged, 2)
}

func TestHourMapSlots(t *testing.T) {
	slots := HourMap{10: study, 9: study}.Slots()
	require.Len(t, slots, 4)
	assert.Equal(t, []int{18, 19, 20, 21}, []int{slots[0].TimeSlot, slots[1].TimeSlot, slots[2].TimeSlot, slots[3].TimeSlot})
}

func TestHourMapWireKeys(t *testing.T) {
	var h HourMap
	require.NoError(t, json.Unmarshal([]byte(`{"9":{"name":"Study","color":{"red":0,"green":0,"blue":1,"opacity":1}}}`), &h))
	assert.Equal(t, "Study", h[9].Name)

	assert.Error(t, json.Unmarshal([]byte(`{"nine":{"name":"Study"}}`), &h))
}
