package runtime

import (
	"github.com/dop251/goja"

	"github.com/tabula-dev/tabula/internal/analysis"
)

// bindStats installs the `stats` object: descriptive statistics over plain
// numeric arrays.
func (e *environment) bindStats() {
	stats := e.vm.NewObject()

	unary := map[string]func([]float64) float64{
		"mean":     analysis.Mean,
		"variance": analysis.Variance,
		"std":      analysis.Std,
		"sum":      analysis.Sum,
		"median":   analysis.Median,
	}
	for name, fn := range unary {
		fn := fn
		name := name
		_ = stats.Set(name, func(call goja.FunctionCall) goja.Value {
			return e.vm.ToValue(fn(e.floatsArg(call, 0, "stats."+name)))
		})
	}

	_ = stats.Set("min", func(call goja.FunctionCall) goja.Value {
		lo, _ := analysis.MinMax(e.floatsArg(call, 0, "stats.min"))
		return e.vm.ToValue(lo)
	})
	_ = stats.Set("max", func(call goja.FunctionCall) goja.Value {
		_, hi := analysis.MinMax(e.floatsArg(call, 0, "stats.max"))
		return e.vm.ToValue(hi)
	})

	_ = stats.Set("percentile", func(call goja.FunctionCall) goja.Value {
		values := e.floatsArg(call, 0, "stats.percentile")
		if len(call.Arguments) < 2 {
			e.throwf("stats.percentile() requires values and a percentile")
		}
		p := call.Arguments[1].ToFloat()
		return e.vm.ToValue(analysis.Percentile(values, p))
	})

	_ = stats.Set("cov", func(call goja.FunctionCall) goja.Value {
		x := e.floatsArg(call, 0, "stats.cov")
		y := e.floatsArg(call, 1, "stats.cov")
		if len(x) != len(y) {
			e.throwf("stats.cov() series lengths differ: %d vs %d", len(x), len(y))
		}
		return e.vm.ToValue(analysis.Covariance(x, y))
	})

	_ = stats.Set("corr", func(call goja.FunctionCall) goja.Value {
		x := e.floatsArg(call, 0, "stats.corr")
		y := e.floatsArg(call, 1, "stats.corr")
		if len(x) != len(y) {
			e.throwf("stats.corr() series lengths differ: %d vs %d", len(x), len(y))
		}
		return e.vm.ToValue(analysis.Correlation(x, y))
	})

	_ = stats.Set("describe", func(call goja.FunctionCall) goja.Value {
		return e.vm.ToValue(analysis.Describe(e.floatsArg(call, 0, "stats.describe")))
	})

	e.vm.Set("stats", stats)
}

// bindML installs the `ml` object: scaling, splitting, regression,
// clustering, and evaluation metrics. Randomized procedures use the
// sandbox's deterministic generator.
func (e *environment) bindML() {
	ml := e.vm.NewObject()

	_ = ml.Set("standardize", func(call goja.FunctionCall) goja.Value {
		X := e.matrixArg(call, 0, "ml.standardize")
		if len(X) == 0 {
			e.throwf("ml.standardize() requires at least one row")
		}
		scaler := analysis.NewStandardScaler()
		scaled := scaler.FitTransform(X)
		return e.vm.ToValue(map[string]any{
			"data": scaled,
			"mean": scaler.Mean,
			"std":  scaler.Std,
		})
	})

	_ = ml.Set("minmax", func(call goja.FunctionCall) goja.Value {
		X := e.matrixArg(call, 0, "ml.minmax")
		return e.vm.ToValue(analysis.MinMaxScale(X))
	})

	_ = ml.Set("trainTestSplit", func(call goja.FunctionCall) goja.Value {
		X := e.matrixArg(call, 0, "ml.trainTestSplit")
		y := e.floatsArg(call, 1, "ml.trainTestSplit")
		if len(X) != len(y) {
			e.throwf("ml.trainTestSplit() X and y lengths differ: %d vs %d", len(X), len(y))
		}
		ratio := 0.25
		if len(call.Arguments) > 2 {
			ratio = call.Arguments[2].ToFloat()
		}
		if ratio <= 0 || ratio >= 1 {
			e.throwf("ml.trainTestSplit() ratio must be in (0, 1), got %v", ratio)
		}
		XTrain, XTest, yTrain, yTest := analysis.TrainTestSplit(X, y, ratio, e.rng)
		return e.vm.ToValue(map[string]any{
			"XTrain": XTrain,
			"XTest":  XTest,
			"yTrain": yTrain,
			"yTest":  yTest,
		})
	})

	_ = ml.Set("linearRegression", func(call goja.FunctionCall) goja.Value {
		X := e.matrixArg(call, 0, "ml.linearRegression")
		y := e.floatsArg(call, 1, "ml.linearRegression")
		if len(X) == 0 || len(X) != len(y) {
			e.throwf("ml.linearRegression() X and y lengths differ: %d vs %d", len(X), len(y))
		}
		model := analysis.NewLinearRegression()
		model.Fit(X, y)
		return e.modelObject(modelPredictor{
			predict: model.Predict,
			weights: model.W,
			bias:    model.B,
			score:   model.Score,
		})
	})

	_ = ml.Set("logisticRegression", func(call goja.FunctionCall) goja.Value {
		X := e.matrixArg(call, 0, "ml.logisticRegression")
		y := e.floatsArg(call, 1, "ml.logisticRegression")
		if len(X) == 0 || len(X) != len(y) {
			e.throwf("ml.logisticRegression() X and y lengths differ: %d vs %d", len(X), len(y))
		}
		model := analysis.NewLogisticRegression()
		model.Fit(X, y)
		return e.modelObject(modelPredictor{
			predict: model.Predict,
			classes: model.Classes,
			score: func(X [][]float64, y []float64) float64 {
				return analysis.Accuracy(y, model.Predict(X))
			},
		})
	})

	_ = ml.Set("kmeans", func(call goja.FunctionCall) goja.Value {
		X := e.matrixArg(call, 0, "ml.kmeans")
		k := 2
		if len(call.Arguments) > 1 {
			k = int(call.Arguments[1].ToInteger())
		}
		if k < 1 || k > len(X) {
			e.throwf("ml.kmeans() needs 1 <= k <= rows, got k=%d for %d rows", k, len(X))
		}
		model := analysis.NewKMeans(k)
		model.Fit(X, e.rng)
		return e.vm.ToValue(map[string]any{
			"centroids": model.Centroids,
			"labels":    model.Labels,
		})
	})

	metrics := map[string]func([]float64, []float64) float64{
		"mse":      analysis.MSE,
		"mae":      analysis.MAE,
		"rmse":     analysis.RMSE,
		"r2":       analysis.R2,
		"accuracy": analysis.Accuracy,
	}
	for name, fn := range metrics {
		fn := fn
		name := name
		_ = ml.Set(name, func(call goja.FunctionCall) goja.Value {
			actual := e.floatsArg(call, 0, "ml."+name)
			predicted := e.floatsArg(call, 1, "ml."+name)
			if len(actual) != len(predicted) {
				e.throwf("ml.%s() series lengths differ: %d vs %d", name, len(actual), len(predicted))
			}
			return e.vm.ToValue(fn(actual, predicted))
		})
	}

	_ = ml.Set("confusionMatrix", func(call goja.FunctionCall) goja.Value {
		actual := e.floatsArg(call, 0, "ml.confusionMatrix")
		predicted := e.floatsArg(call, 1, "ml.confusionMatrix")
		labels, matrix := analysis.ConfusionMatrix(actual, predicted)
		return e.vm.ToValue(map[string]any{
			"labels": labels,
			"matrix": matrix,
		})
	})

	e.vm.Set("ml", ml)
}

// modelPredictor packages a fitted model's callable surface for JS.
type modelPredictor struct {
	predict func([][]float64) []float64
	score   func([][]float64, []float64) float64
	weights []float64
	bias    float64
	classes []float64
}

// modelObject wraps a fitted model as a JS object with predict/score.
func (e *environment) modelObject(m modelPredictor) goja.Value {
	obj := e.vm.NewObject()
	if m.weights != nil {
		_ = obj.Set("weights", m.weights)
		_ = obj.Set("bias", m.bias)
	}
	if m.classes != nil {
		_ = obj.Set("classes", m.classes)
	}
	_ = obj.Set("predict", func(call goja.FunctionCall) goja.Value {
		X := e.matrixArg(call, 0, "predict")
		return e.vm.ToValue(m.predict(X))
	})
	_ = obj.Set("score", func(call goja.FunctionCall) goja.Value {
		X := e.matrixArg(call, 0, "score")
		y := e.floatsArg(call, 1, "score")
		return e.vm.ToValue(m.score(X, y))
	})
	return obj
}

// floatsArg extracts a numeric array argument.
func (e *environment) floatsArg(call goja.FunctionCall, idx int, method string) []float64 {
	if len(call.Arguments) <= idx {
		e.throwf("%s() requires a numeric array argument", method)
	}
	values, ok := toFloats(call.Arguments[idx].Export())
	if !ok {
		e.throwf("%s() argument %d must be a numeric array", method, idx+1)
	}
	return values
}

// matrixArg extracts a numeric matrix argument.
func (e *environment) matrixArg(call goja.FunctionCall, idx int, method string) [][]float64 {
	if len(call.Arguments) <= idx {
		e.throwf("%s() requires a numeric matrix argument", method)
	}
	matrix, ok := toMatrix(call.Arguments[idx].Export())
	if !ok {
		e.throwf("%s() argument %d must be an array of numeric arrays", method, idx+1)
	}
	for i, row := range matrix {
		if len(row) != len(matrix[0]) {
			e.throwf("%s() matrix rows must have equal length: row 0 has %d, row %d has %d",
				method, len(matrix[0]), i, len(row))
		}
	}
	return matrix
}
