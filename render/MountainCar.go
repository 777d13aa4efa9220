// Package render draws rollout traces of classic control environments
// to PNG frames
package render

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
	"gonum.org/v1/gonum/mat"
	"github.com/samuelfneumann/gofqi/environment/classiccontrol/mountaincar"
)

const (
	frameWidth  int = 600
	frameHeight int = 400

	hillSegments int     = 100
	margin       float64 = 40.0
)

// MountainCar renders Mountain Car observations as PNG frames in a
// directory, one file per recorded frame. The hill is drawn as the
// curve y = sin(3x) over the legal position range, with the car on the
// curve at its current position and a flag at the goal.
//
// MountainCar implements the rollout.Recorder interface.
type MountainCar struct {
	dir   string
	frame int

	hillShade color.Color
	skyShade  color.Color
	carShade  color.Color
	flagShade color.Color
}

// NewMountainCar returns a recorder writing frames into dir, creating
// the directory if needed
func NewMountainCar(dir string) (*MountainCar, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("newMountainCar: could not create frame "+
			"directory: %v", err)
	}

	return &MountainCar{
		dir:       dir,
		hillShade: color.RGBA{R: 255, G: 255, B: 255, A: 255},
		skyShade:  color.RGBA{R: 30, G: 30, B: 30, A: 255},
		carShade:  color.RGBA{R: 128, G: 102, B: 230, A: 255},
		flagShade: color.RGBA{R: 255, G: 166, B: 0, A: 255},
	}, nil
}

// RecordFrame draws the argument observation as the next PNG frame
func (m *MountainCar) RecordFrame(obs mat.Vector) error {
	position := obs.AtVec(0)

	dc := gg.NewContext(frameWidth, frameHeight)
	dc.SetColor(m.skyShade)
	dc.Clear()

	// Hill profile
	dc.ClearPath()
	dc.SetColor(m.hillShade)
	dc.SetLineWidth(3.0)
	for i := 0; i <= hillSegments; i++ {
		x := mountaincar.MinPosition + float64(i)/float64(hillSegments)*
			(mountaincar.MaxPosition-mountaincar.MinPosition)
		px, py := m.toPixel(x)
		if i == 0 {
			dc.MoveTo(px, py)
		} else {
			dc.LineTo(px, py)
		}
	}
	dc.Stroke()

	// Goal flag
	flagX, flagY := m.toPixel(mountaincar.GoalPosition)
	dc.ClearPath()
	dc.SetColor(m.flagShade)
	dc.SetLineWidth(2.0)
	dc.DrawLine(flagX, flagY, flagX, flagY-30)
	dc.Stroke()
	dc.DrawRectangle(flagX, flagY-30, 15, 10)
	dc.Fill()

	// Car
	carX, carY := m.toPixel(position)
	dc.SetColor(m.carShade)
	dc.DrawCircle(carX, carY-6, 6)
	dc.Fill()

	path := filepath.Join(m.dir, fmt.Sprintf("frame%05d.png", m.frame))
	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("recordFrame: could not save frame %v: %v",
			m.frame, err)
	}
	m.frame++
	return nil
}

// Close finalizes the trace. Frames are flushed per RecordFrame call,
// so there is nothing left to clean up.
func (m *MountainCar) Close() error {
	return nil
}

// Frames returns the number of frames recorded so far
func (m *MountainCar) Frames() int {
	return m.frame
}

// toPixel converts an x position on the hill to pixel coordinates of
// the point on the hill curve y = sin(3x)
func (m *MountainCar) toPixel(x float64) (float64, float64) {
	xFraction := (x - mountaincar.MinPosition) /
		(mountaincar.MaxPosition - mountaincar.MinPosition)
	px := margin + xFraction*(float64(frameWidth)-2*margin)

	// sin(3x) ∈ [-1, 1], drawn with y increasing downwards
	yFraction := (math.Sin(3*x) + 1) / 2
	py := float64(frameHeight) - margin -
		yFraction*(float64(frameHeight)-2*margin)
	return px, py
}
