// Command pogs-solve demonstrates the solver on a random least-squares
// instance, optionally loading settings overrides from a YAML file.
// Argument parsing and the demo problem generator sit outside the core
// solver library; they exist only to exercise it end-to-end.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	pogs "github.com/liq07lzucn/gopogs"
	"github.com/liq07lzucn/gopogs/equil"
	"github.com/liq07lzucn/gopogs/linalg"
	"github.com/liq07lzucn/gopogs/prox"
)

func main() {
	settingsPath := flag.String("settings", "", "path to a YAML settings file overriding the defaults")
	m := flag.Int("m", 30, "rows of the random least-squares matrix")
	n := flag.Int("n", 20, "columns of the random least-squares matrix")
	seed := flag.Int64("seed", 1, "random seed")
	flag.Parse()

	settings := pogs.DefaultSettings()
	settings.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	if *settingsPath != "" {
		data, err := os.ReadFile(*settingsPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "pogs-solve:", err)
			os.Exit(1)
		}
		if err := yaml.Unmarshal(data, &settings); err != nil {
			fmt.Fprintln(os.Stderr, "pogs-solve:", err)
			os.Exit(1)
		}
		settings.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	r := rand.New(rand.NewSource(*seed))
	data := make([]float64, *m**n)
	for i := range data {
		data[i] = r.NormFloat64()
	}
	xTrue := make([]float64, *n)
	for j := range xTrue {
		xTrue[j] = r.NormFloat64()
	}
	b := make([]float64, *m)
	for i := 0; i < *m; i++ {
		sum := 0.0
		for j := 0; j < *n; j++ {
			sum += data[i**n+j] * xTrue[j]
		}
		b[i] = sum + 0.01*r.NormFloat64()
	}

	a := linalg.NewMatrix(*m, *n, data, true)

	f := make(prox.FunctionVector, *m)
	for i := range f {
		fn := prox.NewFunction(prox.Square)
		fn.B = b[i]
		f[i] = fn
	}
	g := make(prox.FunctionVector, *n)
	for j := range g {
		g[j] = prox.NewFunction(prox.Zero)
	}

	info, out, err := pogs.SolveDirect(a, equil.Sinkhorn, f, g, &settings)
	if err != nil {
		fmt.Fprintln(os.Stderr, "pogs-solve:", err)
		os.Exit(1)
	}

	fmt.Printf("converged=%v k=%d primal_obj=%.6g setup=%s solve=%s\n",
		info.Converged, info.K, info.Obj.Primal, info.SetupTime, info.SolveTime)
	fmt.Printf("x=%v\n", out.X)
}
