// Package preprocessing は特徴量のスケーリングと、スケーラーと回帰モデルをつなぐパイプラインを提供する
package preprocessing

import (
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/gomachine/core/model"
	"github.com/YuminosukeSato/gomachine/pkg/errors"
)

// 標準偏差・範囲がこれ未満の特徴量は定数とみなしスケール1を使う
const constantFeatureTol = 1e-8

// affine は列ごとの変換 (x - offset) / scale を共有する
type affine struct {
	state *model.StateManager
	mu    sync.RWMutex

	offset []float64
	scale  []float64
}

func (a *affine) set(offset, scale []float64, nSamples int) {
	a.mu.Lock()
	a.offset, a.scale = offset, scale
	a.state.SetFitted(len(offset), nSamples)
	a.mu.Unlock()
}

// apply は Fit と同じロックの下で状態と列数を確認してから変換する
func (a *affine) apply(method string, X mat.Matrix, inverse bool) (mat.Matrix, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if err := a.state.RequireFitted(method); err != nil {
		return nil, err
	}
	if err := a.state.CheckFeatures(a.state.Name()+"."+method, X); err != nil {
		return nil, err
	}

	result := mat.DenseCopyOf(X)
	result.Apply(func(_, j int, v float64) float64 {
		if inverse {
			return v*a.scale[j] + a.offset[j]
		}
		return (v - a.offset[j]) / a.scale[j]
	}, result)
	return result, nil
}

// StandardScaler はデータを平均0、標準偏差1に変換する
// 標準偏差は母標準偏差（n で割る）を使う
type StandardScaler struct {
	affine

	// WithMean は平均を引くかどうか (デフォルト: true)
	WithMean bool
	// WithStd は標準偏差で割るかどうか (デフォルト: true)
	WithStd bool
}

var _ model.Transformer = (*StandardScaler)(nil)

// NewStandardScaler は新しいStandardScalerを作成する
//
// 使用例:
//
//	scaler := preprocessing.NewStandardScaler(true, true)
//	err := scaler.Fit(X)
//	XScaled, err := scaler.Transform(X)
func NewStandardScaler(withMean, withStd bool) *StandardScaler {
	return &StandardScaler{
		affine:   affine{state: model.NewStateManager("StandardScaler")},
		WithMean: withMean,
		WithStd:  withStd,
	}
}

// NewStandardScalerDefault はデフォルト設定でStandardScalerを作成する
func NewStandardScalerDefault() *StandardScaler {
	return NewStandardScaler(true, true)
}

// Fit は訓練データから各列の平均と標準偏差を計算する
func (s *StandardScaler) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("StandardScaler.Fit", "empty data", errors.ErrEmptyData)
	}

	mean := make([]float64, c)
	scale := make([]float64, c)
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, X)
		m, v := stat.PopMeanVariance(col, nil)
		if s.WithMean {
			mean[j] = m
		}
		scale[j] = 1
		if std := math.Sqrt(v); s.WithStd && std >= constantFeatureTol {
			scale[j] = std
		}
	}

	s.set(mean, scale, r)
	return nil
}

// Transform は学習済みの統計情報を使ってデータを標準化する
func (s *StandardScaler) Transform(X mat.Matrix) (mat.Matrix, error) {
	return s.apply("Transform", X, false)
}

// FitTransform は訓練データで学習し、同じデータを変換する
func (s *StandardScaler) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// InverseTransform は標準化されたデータを元のスケールに戻す
func (s *StandardScaler) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	return s.apply("InverseTransform", X, true)
}

// Mean は各特徴量の平均値を返す（WithMean=false の場合は0）
func (s *StandardScaler) Mean() []float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]float64(nil), s.offset...)
}

// Scale は各特徴量のスケールを返す
func (s *StandardScaler) Scale() []float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]float64(nil), s.scale...)
}

// GetParams はスケーラーのパラメータを取得する
func (s *StandardScaler) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"with_mean": s.WithMean,
		"with_std":  s.WithStd,
	}
}

// String はスケーラーの文字列表現を返す
func (s *StandardScaler) String() string {
	if !s.state.IsFitted() {
		return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t)", s.WithMean, s.WithStd)
	}
	nFeatures, _ := s.state.GetDimensions()
	return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t, n_features=%d)",
		s.WithMean, s.WithStd, nFeatures)
}

// MinMaxScaler はデータを指定した範囲（デフォルト[0,1]）にスケーリングする
type MinMaxScaler struct {
	affine

	// FeatureRange はスケーリング後の範囲 [min, max]
	FeatureRange [2]float64
}

var _ model.Transformer = (*MinMaxScaler)(nil)

// NewMinMaxScaler は新しいMinMaxScalerを作成する
func NewMinMaxScaler(featureRange [2]float64) *MinMaxScaler {
	return &MinMaxScaler{
		affine:       affine{state: model.NewStateManager("MinMaxScaler")},
		FeatureRange: featureRange,
	}
}

// NewMinMaxScalerDefault はデフォルト設定([0,1]範囲)でMinMaxScalerを作成する
func NewMinMaxScalerDefault() *MinMaxScaler {
	return NewMinMaxScaler([2]float64{0, 1})
}

// Fit は訓練データから各列の最小値・最大値を計算する
//
// 変換は x' = (x - min) / (max - min) · (hi - lo) + lo を
// (x - offset) / scale の形で保持する
func (m *MinMaxScaler) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("MinMaxScaler.Fit", "empty data", errors.ErrEmptyData)
	}
	lo, hi := m.FeatureRange[0], m.FeatureRange[1]
	if !(hi > lo) {
		return errors.NewValidationError("feature_range", "max must be greater than min", m.FeatureRange)
	}

	offset := make([]float64, c)
	scale := make([]float64, c)
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, X)
		dataMin, dataMax := floats.Min(col), floats.Max(col)
		dataRange := dataMax - dataMin
		if dataRange < constantFeatureTol {
			// 定数特徴量
			dataRange = 1
		}
		scale[j] = dataRange / (hi - lo)
		offset[j] = dataMin - lo*scale[j]
	}

	m.set(offset, scale, r)
	return nil
}

// Transform は学習済みの統計情報を使ってデータをスケーリングする
func (m *MinMaxScaler) Transform(X mat.Matrix) (mat.Matrix, error) {
	return m.apply("Transform", X, false)
}

// FitTransform は訓練データで学習し、同じデータを変換する
func (m *MinMaxScaler) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := m.Fit(X); err != nil {
		return nil, err
	}
	return m.Transform(X)
}

// InverseTransform はスケーリングされたデータを元の範囲に戻す
func (m *MinMaxScaler) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	return m.apply("InverseTransform", X, true)
}

// GetParams はスケーラーのパラメータを取得する
func (m *MinMaxScaler) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"feature_range": m.FeatureRange,
	}
}

// String はスケーラーの文字列表現を返す
func (m *MinMaxScaler) String() string {
	return fmt.Sprintf("MinMaxScaler(feature_range=[%.1f, %.1f])", m.FeatureRange[0], m.FeatureRange[1])
}
