package ifunc

// Shape-mode grid defaults: k standard deviations either side of the mean,
// 1000 evenly spaced points.
const (
	DefaultGridWidth  = 4.0
	DefaultGridPoints = 1000
)

// DefaultGrid builds the evaluation grid spanning mean +- k*sd in n evenly
// spaced points. When the parameters carry no mean or sd the grid falls
// back to mean 0 and sd 1.
func DefaultGrid(par Params, k float64, n int) []float64 {
	m := 0.0
	if par.Has(ParMean) {
		m = par[ParMean]
	}
	s := 1.0
	if par.Has(ParSD) && par[ParSD] > 0.0 {
		s = par[ParSD]
	}
	lo := m - k*s
	step := 2.0 * k * s / float64(n-1)
	grid := make([]float64, n)
	for i := range grid {
		grid[i] = lo + float64(i)*step
	}
	return grid
}

// Shape evaluates the formula over the grid, in grid order.
func Shape(f Formula, grid []float64, par Params, cfg Config) (*Result, error) {
	if err := requireKeys(f, par, cfg); err != nil {
		return nil, err
	}
	if err := f.Check(par, cfg); err != nil {
		return nil, err
	}
	vals := make([]float64, len(grid))
	for i, x := range grid {
		vals[i] = f.Eval(x, par, cfg)
	}
	return &Result{
		Estimator: f.Name(),
		Shape:     true,
		X:         append([]float64(nil), grid...),
		IF:        vals,
	}, nil
}
