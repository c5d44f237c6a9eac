// internal/chart/renderer.go
package chart

import (
	"bytes"
	"fmt"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"albion-gold-bot/internal/types"
)

// Mode tells which drawing path produced the image.
type Mode string

const (
	// ModeSinglePoint is a lone marker plus a dashed flat reference line.
	ModeSinglePoint Mode = "single_point"
	// ModeLine is a connected line through every record.
	ModeLine Mode = "line"
)

// Result is a rendered chart plus the mode that produced it.
type Result struct {
	PNG  []byte
	Mode Mode
}

var seriesGreen = drawing.Color{R: 46, G: 204, B: 113, A: 255}

// Renderer draws gold price trend charts as PNG.
type Renderer struct {
	width  int
	height int
}

func NewRenderer() *Renderer {
	return &Renderer{width: 1000, height: 500}
}

// Render draws records, already sorted ascending. One record gets a marker
// with a flat reference line, two or more get a connected line. The x-axis
// tick layout switches on the record count, not the day span: "02 Jan" up to
// seven records, "Jan 2006" beyond that.
func (r *Renderer) Render(records []types.PriceRecord) (*Result, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("render: tidak ada data untuk digambar")
	}

	times := make([]time.Time, len(records))
	prices := make([]float64, len(records))
	for i, rec := range records {
		times[i] = rec.Timestamp
		prices[i] = float64(rec.Price)
	}

	tickLayout := "02 Jan"
	if len(records) > 7 {
		tickLayout = "Jan 2006"
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("TREND HARGA (%d Hari Terakhir)", len(records)),
		Width:  r.width,
		Height: r.height,
		XAxis: chart.XAxis{
			Name:           "Tanggal",
			ValueFormatter: chart.TimeValueFormatterWithFormat(tickLayout),
		},
		YAxis: chart.YAxis{
			Name: "Harga Silver",
		},
	}

	mode := ModeLine
	if len(records) == 1 {
		mode = ModeSinglePoint
		graph.Series = r.singlePointSeries(times[0], prices[0])
		// A lone point has no natural y-range; pad it so the axis renders.
		graph.YAxis.Range = &chart.ContinuousRange{
			Min: prices[0] * 0.95,
			Max: prices[0] * 1.05,
		}
	} else {
		graph.Series = []chart.Series{
			chart.TimeSeries{
				Name:    "Harga",
				XValues: times,
				YValues: prices,
				Style: chart.Style{
					StrokeColor: seriesGreen,
					StrokeWidth: 2,
					DotColor:    seriesGreen,
					DotWidth:    4,
				},
			},
		}
	}

	buf := bytes.NewBuffer(nil)
	if err := graph.Render(chart.PNG, buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}

	return &Result{PNG: buf.Bytes(), Mode: mode}, nil
}

// singlePointSeries draws the marker plus a dashed horizontal line at the
// price, stretched half a day to each side so the line is visible.
func (r *Renderer) singlePointSeries(at time.Time, price float64) []chart.Series {
	return []chart.Series{
		chart.TimeSeries{
			Name:    "Referensi",
			XValues: []time.Time{at.Add(-12 * time.Hour), at.Add(12 * time.Hour)},
			YValues: []float64{price, price},
			Style: chart.Style{
				StrokeColor:     seriesGreen.WithAlpha(128),
				StrokeWidth:     1,
				StrokeDashArray: []float64{5.0, 5.0},
			},
		},
		chart.TimeSeries{
			Name:    "Harga",
			XValues: []time.Time{at},
			YValues: []float64{price},
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotColor:    seriesGreen,
				DotWidth:    10,
			},
		},
	}
}
