package preprocessing

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gomachine/core/model"
	"github.com/YuminosukeSato/gomachine/pkg/errors"
)

// Pipeline は特徴量の変換と回帰モデルを順に適用する
// Transformer が nil の場合は特徴量をそのまま渡す
type Pipeline struct {
	Transformer model.Transformer
	Regressor   model.Regressor
}

var (
	_ model.Regressor       = (*Pipeline)(nil)
	_ model.ParameterGetter = (*Pipeline)(nil)
)

// NewPipeline は新しいPipelineを作成する
//
// 使用例:
//
//	p := preprocessing.NewPipeline(
//	    preprocessing.NewStandardScalerDefault(),
//	    neighbors.NewKNeighborsRegressor(neighbors.WithK(3)),
//	)
//	err := p.Fit(X, y)
func NewPipeline(t model.Transformer, r model.Regressor) *Pipeline {
	return &Pipeline{Transformer: t, Regressor: r}
}

func (p *Pipeline) transform(X mat.Matrix) (mat.Matrix, error) {
	if p.Transformer == nil {
		return X, nil
	}
	return p.Transformer.Transform(X)
}

// Fit は変換器を X で学習させ、変換後のデータで回帰モデルを学習させる
func (p *Pipeline) Fit(X, y mat.Matrix) error {
	if p.Regressor == nil {
		return errors.NewValueError("Pipeline.Fit", "regressor is required")
	}
	if p.Transformer != nil {
		if err := p.Transformer.Fit(X); err != nil {
			return errors.Wrap(err, "pipeline: fitting transformer")
		}
	}
	Xt, err := p.transform(X)
	if err != nil {
		return err
	}
	return p.Regressor.Fit(Xt, y)
}

// Predict は X を変換してから予測する
func (p *Pipeline) Predict(X mat.Matrix) (mat.Matrix, error) {
	if p.Regressor == nil {
		return nil, errors.NewValueError("Pipeline.Predict", "regressor is required")
	}
	Xt, err := p.transform(X)
	if err != nil {
		return nil, err
	}
	return p.Regressor.Predict(Xt)
}

// Score は X を変換してから回帰モデルの R² を返す
func (p *Pipeline) Score(X, y mat.Matrix) (float64, error) {
	if p.Regressor == nil {
		return 0, errors.NewValueError("Pipeline.Score", "regressor is required")
	}
	Xt, err := p.transform(X)
	if err != nil {
		return 0, err
	}
	return p.Regressor.Score(Xt, y)
}

// GetParams は各ステップのパラメータを "transformer__" / "regressor__" 接頭辞付きで返す
func (p *Pipeline) GetParams() map[string]interface{} {
	params := make(map[string]interface{})
	add := func(prefix string, step interface{}) {
		if g, ok := step.(model.ParameterGetter); ok {
			for k, v := range g.GetParams() {
				params[prefix+k] = v
			}
		}
	}
	add("transformer__", p.Transformer)
	add("regressor__", p.Regressor)
	return params
}
