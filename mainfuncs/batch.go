package mainfuncs

import (
	"fmt"

	"github.com/banachtech/riskif/data"
	"github.com/banachtech/riskif/ifunc"
	"github.com/schollz/progressbar/v3"
)

// Batch computes the IF series of several estimators over one return
// sample, reusing the template input for mode and post-processing settings.
func Batch(rs data.ReturnSeries, ests []ifunc.Estimator, template ifunc.Input) (map[ifunc.Estimator]*ifunc.Result, error) {
	out := make(map[ifunc.Estimator]*ifunc.Result, len(ests))
	bar := progressBar(len(ests))
	for _, est := range ests {
		bar.Describe(fmt.Sprintf("Computing %v\t", est))
		in := template
		in.Estimator = est
		in.Returns = rs.Returns
		in.Labels = rs.Dates
		res, err := ifunc.Compute(in)
		if err != nil {
			return nil, fmt.Errorf("estimator %v: %w", est, err)
		}
		out[est] = res
		bar.Add(1)
	}
	bar.Finish()
	return out, nil
}

// progress bar initialization
func progressBar(length int) *progressbar.ProgressBar {
	bar := progressbar.NewOptions(
		length,
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionUseANSICodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(20),
		progressbar.OptionSetVisibility(true),
		progressbar.OptionShowDescriptionAtLineEnd(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
	return bar
}
