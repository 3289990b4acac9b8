package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullHeader = "name,location,distance_km,ascent_m,avg_gradient,max_gradient,over_3,over_5,over_7,over_10,over_13,over_17,over_20,over_25,over_30,over_40,path_group\n"

func TestParse_FullCatalogue(t *testing.T) {
	input := fullHeader +
		"Wuling,Nantou,12.4,1050,8.5,17.9,12,11,9,3.2,1.1,0.4,0,0,0,0,wuling\n" +
		"Fengguizui,Taipei,3.2,280,8.8,14,3.2,3,2.4,0.9,0.3,0,0,0,0,0,\n"

	climbs, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, climbs, 2)

	w := climbs[0]
	assert.Equal(t, "Wuling", w.Name)
	assert.Equal(t, "Nantou", w.Location)
	assert.Equal(t, 12.4, w.DistanceKm)
	assert.Equal(t, 1050.0, w.TotalAscentMeters)
	assert.Equal(t, 8.5, w.AvgGradientPct)
	assert.Equal(t, 17.9, w.MaxGradientPct)
	assert.Equal(t, 3.2, w.Histogram[10])
	assert.Equal(t, 0.4, w.Histogram[17])
	assert.NotContains(t, w.Histogram, 20, "zero distances are not stored")
	assert.Equal(t, "wuling", w.PathGroupID)
	assert.Equal(t, 0, w.Position)

	assert.Equal(t, 1, climbs[1].Position)
	assert.Empty(t, climbs[1].PathGroupID)
}

func TestParse_MissingHistogramColumnsReadAsZero(t *testing.T) {
	input := "name,location,distance_km,ascent_m,avg_gradient,max_gradient,over_10\n" +
		"Short,Town,1.5,90,6,11,0.4\n"

	climbs, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, climbs, 1)
	assert.Equal(t, map[int]float64{10: 0.4}, climbs[0].Histogram)
	assert.Equal(t, 0.0, climbs[0].DistanceAtOrAbove(13))
}

func TestParse_HeaderAliases(t *testing.T) {
	input := "\ufeffName, 地點 ,距離,總爬升,平均坡度,最大坡度\n" +
		"Alias Climb,Hsinchu,2.0,150,7.5,12\n"

	climbs, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, climbs, 1)
	assert.Equal(t, "Alias Climb", climbs[0].Name)
	assert.Equal(t, "Hsinchu", climbs[0].Location)
	assert.Equal(t, 150.0, climbs[0].TotalAscentMeters)
}

func TestParse_MissingRequiredColumn(t *testing.T) {
	input := "name,location,distance_km,ascent_m,avg_gradient\nA,B,1,2,3\n"

	_, err := Parse(strings.NewReader(input))
	var missing *MissingColumnError
	require.True(t, errors.As(err, &missing), "got %v", err)
	assert.Equal(t, ColMaxGradient, missing.Column)
}

func TestParse_RowErrors(t *testing.T) {
	tests := []struct {
		name   string
		row    string
		line   int
		column string
	}{
		{"bad number", "A,B,abc,10,5,8", 3, ColDistanceKm},
		{"empty name", ",B,1,10,5,8", 3, ColName},
		{"empty gradient", "A,B,1,10,,8", 3, ColAvgGradient},
		{"negative distance", "A,B,-1,10,5,8", 3, ColDistanceKm},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := "name,location,distance_km,ascent_m,avg_gradient,max_gradient\n" +
				"Good,Place,1,10,5,8\n" +
				tt.row + "\n"

			climbs, err := Parse(strings.NewReader(input))
			assert.Nil(t, climbs, "a bad row must reject the whole catalogue")

			var rowErr *RowError
			require.True(t, errors.As(err, &rowErr), "got %v", err)
			assert.Equal(t, tt.line, rowErr.Line)
			assert.Equal(t, tt.column, rowErr.Column)
		})
	}
}

func TestParse_EmptyValueIsDetectable(t *testing.T) {
	input := "name,location,distance_km,ascent_m,avg_gradient,max_gradient\nA,,1,10,5,8\n"
	_, err := Parse(strings.NewReader(input))
	assert.ErrorIs(t, err, ErrEmptyValue)
}

func TestParse_BlankLinesSkipped(t *testing.T) {
	input := "name,location,distance_km,ascent_m,avg_gradient,max_gradient\n" +
		"A,B,1,10,5,8\n" +
		",,,,,\n" +
		"C,D,2,20,6,9\n"

	climbs, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, climbs, 2)
	assert.Equal(t, "C", climbs[1].Name)
	assert.Equal(t, 1, climbs[1].Position)
}

func TestParse_Empty(t *testing.T) {
	_, err := Parse(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyCatalogue)
}

func TestParse_HeaderOnly(t *testing.T) {
	climbs, err := Parse(strings.NewReader(fullHeader))
	require.NoError(t, err)
	assert.Empty(t, climbs)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "climbs.csv")
	require.NoError(t, os.WriteFile(path, []byte(fullHeader+"A,B,1,10,5,8,1,1,0.5,0,0,0,0,0,0,0,g\n"), 0644))

	climbs, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, climbs, 1)
	assert.Equal(t, 0.5, climbs[0].Histogram[7])

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestHistogramColumn(t *testing.T) {
	assert.Equal(t, "over_3", HistogramColumn(3))
	assert.Equal(t, "over_40", HistogramColumn(40))
}
