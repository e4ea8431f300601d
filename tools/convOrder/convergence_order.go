package main

import (
	"bufio"
	"encoding/csv"
	"flag"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
)

var (
	csvFile string
)

func main() {
	csvFilePtr := flag.String("csvFile", csvFile, "file containing entries of a convergence study")
	flag.Parse()
	csvFile = *csvFilePtr
	if len(csvFile) == 0 {
		flag.Usage()
		os.Exit(1)
	}
	fmt.Printf("Input file: %v\n", csvFile)
	studies := readCSV(csvFile)
	keys := make([]string, 0, len(studies))
	for k := range studies {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		cs := studies[key]
		fmt.Printf("Title = %s, Property = %s, Order = %d\n", cs.title, cs.property, cs.order)
		fmt.Printf("%12s %8s %12s %12s %8s %8s\n", "h", "ndof", "errRMS", "errMax", "rateRMS", "rateMax")
		for i := range cs.h {
			rateRMS, rateMax := "-", "-"
			if i > 0 {
				rateRMS = fmt.Sprintf("%8.2f", rate(cs.h[i-1], cs.h[i], cs.errRMS[i-1], cs.errRMS[i]))
				rateMax = fmt.Sprintf("%8.2f", rate(cs.h[i-1], cs.h[i], cs.errMax[i-1], cs.errMax[i]))
			}
			fmt.Printf("%12.4e %8d %12.4e %12.4e %8s %8s\n",
				cs.h[i], cs.ndof[i], cs.errRMS[i], cs.errMax[i], rateRMS, rateMax)
		}
		if len(cs.h) > 1 {
			fmt.Printf("least squares order: RMS %.2f, Max %.2f\n",
				fitOrder(cs.h, cs.errRMS), fitOrder(cs.h, cs.errMax))
		}
	}
}

// rate is the observed order between two consecutive refinement levels
func rate(h1, h2, e1, e2 float64) float64 {
	if e1 <= 0 || e2 <= 0 || h1 == h2 {
		return math.NaN()
	}
	return math.Log(e1/e2) / math.Log(h1/h2)
}

// fitOrder is the least squares slope of log(err) against log(h)
func fitOrder(h, err []float64) float64 {
	var (
		n                = 0
		sx, sy, sxx, sxy float64
	)
	for i := range h {
		if err[i] <= 0 || h[i] <= 0 {
			continue
		}
		x, y := math.Log(h[i]), math.Log(err[i])
		sx += x
		sy += y
		sxx += x * x
		sxy += x * y
		n++
	}
	if n < 2 {
		return math.NaN()
	}
	fn := float64(n)
	return (fn*sxy - sx*sy) / (fn*sxx - sx*sx)
}

type ConvergenceStudy struct {
	title          string
	property       string
	order          int
	h              []float64
	ndof           []int
	errRMS, errMax []float64
}

func NewConvergenceStudy(title, property string, order int) *ConvergenceStudy {
	return &ConvergenceStudy{
		title:    title,
		property: property,
		order:    order,
	}
}

func (cs *ConvergenceStudy) Add(h float64, ndof int, errRMS, errMax float64) {
	cs.h = append(cs.h, h)
	cs.ndof = append(cs.ndof, ndof)
	cs.errRMS = append(cs.errRMS, errRMS)
	cs.errMax = append(cs.errMax, errMax)
}

func readCSV(csvFile string) (studies map[string]*ConvergenceStudy) {
	var (
		records        [][]string
		err            error
		f              *os.File
		ok             bool
		cs             *ConvergenceStudy
		h              float64
		errRMS, errMax float64
	)
	studies = make(map[string]*ConvergenceStudy)
	if f, err = os.Open(csvFile); err != nil {
		panic(err)
	}
	r := csv.NewReader(bufio.NewReader(f))
	if records, err = r.ReadAll(); err != nil {
		panic(err)
	}
	for i, rec := range records {
		if i == 0 {
			continue
		}
		title, property, ntxt := rec[0], rec[2], rec[3]
		n, _ := strconv.Atoi(ntxt)
		_, _ = fmt.Sscanf(rec[4], "%f", &h)
		ndof, _ := strconv.Atoi(rec[5])
		_, _ = fmt.Sscanf(rec[6], "%f", &errRMS)
		_, _ = fmt.Sscanf(rec[7], "%f", &errMax)
		combTitle := title + property + ntxt
		if cs, ok = studies[combTitle]; !ok {
			cs = NewConvergenceStudy(title, property, n)
			studies[combTitle] = cs
		}
		cs.Add(h, ndof, errRMS, errMax)
	}
	return
}
