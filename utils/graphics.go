package utils

import (
	"image/color"
	"time"

	"github.com/notargets/avs/chart2d"
	"github.com/notargets/avs/functions"
	graphics2D "github.com/notargets/avs/geometry"
	utils2 "github.com/notargets/avs/utils"
)

type ColorName uint8

const (
	White ColorName = iota
	Blue
	Red
	Green
	Black
)

func GetColor(name ColorName) (c color.RGBA) {
	switch name {
	case White:
		c = color.RGBA{R: 255, G: 255, B: 255, A: 0}
	case Blue:
		c = color.RGBA{R: 50, G: 0, B: 255, A: 0}
	case Red:
		c = color.RGBA{R: 255, G: 0, B: 50, A: 0}
	case Green:
		c = color.RGBA{R: 25, G: 255, B: 25, A: 0}
	case Black:
		c = color.RGBA{R: 0, G: 0, B: 0, A: 0}
	}
	return
}

func SleepFor(milliseconds int) {
	time.Sleep(time.Duration(milliseconds) * time.Millisecond)
}

func ArraysToPoints(r1, r2 []float64) (points []graphics2D.Point) {
	points = make([]graphics2D.Point, len(r1))
	for i := range r1 {
		points[i].X[0] = float32(r1[i])
		points[i].X[1] = float32(r2[i])
	}
	return
}

// BuildTriMesh assembles a plottable triangle mesh from planar vertex
// coordinates, a triangle vertex list and one attribute per triangle
// corner.
func BuildTriMesh(VX, VY Vector, EToV Matrix, attributes Matrix) (trimesh graphics2D.TriMesh) {
	var (
		K, _ = EToV.Dims()
	)
	points := ArraysToPoints(VX.DataP, VY.DataP)
	trimesh.Triangles = make([]graphics2D.Triangle, K)
	trimesh.Attributes = make([][]float32, K)
	for k := 0; k < K; k++ {
		trimesh.Triangles[k].Nodes[0] = int32(EToV.At(k, 0))
		trimesh.Triangles[k].Nodes[1] = int32(EToV.At(k, 1))
		trimesh.Triangles[k].Nodes[2] = int32(EToV.At(k, 2))
		trimesh.Attributes[k] = []float32{
			float32(attributes.At(k, 0)),
			float32(attributes.At(k, 1)),
			float32(attributes.At(k, 2)),
		}
	}
	trimesh.Geometry = points
	return
}

// FieldPlot renders a scalar field over a planar projection of a surface
// mesh through the avs chart server.
type FieldPlot struct {
	Chart        *chart2d.Chart2D
	ColorMap     *utils2.ColorMap
	GraphicsMesh *graphics2D.TriMesh
}

func NewFieldPlot(width, height int, gm *graphics2D.TriMesh) (fp *FieldPlot) {
	box := graphics2D.NewBoundingBox(gm.GetGeometry())
	box = box.Scale(1.1)
	fp = &FieldPlot{
		Chart:        chart2d.NewChart2D(width, height, box.XMin[0], box.XMax[0], box.XMin[1], box.XMax[1]),
		GraphicsMesh: gm,
	}
	go fp.Chart.Plot()
	return
}

func (fp *FieldPlot) AddColorMap(fmin, fmax float64) {
	fp.ColorMap = utils2.NewColorMap(float32(fmin), float32(fmax), 1.)
	fp.Chart.AddColorMap(fp.ColorMap)
}

func (fp *FieldPlot) AddMesh(lineColor color.RGBA) {
	if err := fp.Chart.AddTriMesh("Mesh", fp.GraphicsMesh.GetGeometry(), *fp.GraphicsMesh,
		chart2d.NoGlyph, chart2d.Solid, lineColor); err != nil {
		panic("unable to add graph series")
	}
}

func (fp *FieldPlot) AddFunctionSurface(field []float32) {
	var (
		noLine = chart2d.NoLine
		white  = GetColor(White)
	)
	fs := functions.NewFSurface(fp.GraphicsMesh, [][]float32{field}, 0)
	if err := fp.Chart.AddFunctionSurface("FSurface", *fs, noLine, white); err != nil {
		panic("unable to add function surface series")
	}
}

// LineChart plots xy series, used for convergence histories.
type LineChart struct {
	Chart    *chart2d.Chart2D
	ColorMap *utils2.ColorMap
}

func NewLineChart(width, height int, xmin, xmax, fmin, fmax float64) (lc *LineChart) {
	lc = &LineChart{
		Chart:    chart2d.NewChart2D(width, height, float32(xmin), float32(xmax), float32(fmin), float32(fmax)),
		ColorMap: utils2.NewColorMap(-1, 1, 1),
	}
	go lc.Chart.Plot()
	return
}

func (lc *LineChart) Plot(graphDelay time.Duration, x, f []float64, lineColor float64, lineName string) {
	/*
		lineColor goes from -1 (red) to 1 (blue)
	*/
	if err := lc.Chart.AddSeries(lineName, x, f,
		chart2d.NoGlyph, chart2d.Solid, lc.ColorMap.GetRGB(float32(lineColor))); err != nil {
		panic("unable to add graph series")
	}
	time.Sleep(graphDelay)
}
