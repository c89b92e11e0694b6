package main

import (
	"fmt"
	"os"
	"time"

	"github.com/banachtech/riskif/api"
	"github.com/banachtech/riskif/data"
	"github.com/banachtech/riskif/ifunc"
	"github.com/banachtech/riskif/mainfuncs"
	"github.com/banachtech/riskif/plot"
	"github.com/banachtech/riskif/util"
	"github.com/joho/godotenv"
)

func main() {
	godotenv.Load()

	rs := demoSeries()

	// IF time series for a small panel of estimators, prewhitened.
	results, err := mainfuncs.Batch(rs, []ifunc.Estimator{ifunc.Mean, ifunc.SD, ifunc.ES, ifunc.SR}, ifunc.Input{
		Prewhiten: true,
	})
	if err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
	for est, res := range results {
		fmt.Printf("%v: %d IF values, first %0.6f\n", est, len(res.IF), res.IF[0])
	}

	// Sensitivity shape of 5% VaR, written as CSV.
	engine := ifunc.NewEngine(plot.CSV{Dir: "."})
	shape, err := engine.Run(ifunc.Input{
		Estimator: ifunc.VaR,
		Returns:   rs.Returns,
		EvalShape: true,
		Plot:      true,
		Title:     "var_shape",
	})
	if err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
	fmt.Printf("VaR shape over [%0.4f, %0.4f]\n", shape.X[0], shape.X[len(shape.X)-1])

	if addr := os.Getenv("RISKIF_ADDR"); addr != "" {
		server := api.NewServer()
		if err := server.Start(addr); err != nil {
			fmt.Println(err)
			os.Exit(-1)
		}
	}
}

// demoSeries loads returns from RISKIF_PRICES if set, else simulates them.
func demoSeries() data.ReturnSeries {
	if f := os.Getenv("RISKIF_PRICES"); f != "" {
		rs, err := data.Load(f)
		if err != nil {
			fmt.Println(err)
			os.Exit(-1)
		}
		return rs
	}
	n := 500
	start, _ := time.Parse(data.Layout, "2023-01-02")
	return data.ReturnSeries{
		Dates:   util.RandomDates(n, start),
		Returns: util.RandomReturns(n, 0.0005, 0.01),
	}
}
