package classifier

import (
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"
)

// minTrainingExamples is the minimum number of rows required to fit
const minTrainingExamples = 5

// NeuralConfig configures the feedforward network
type NeuralConfig struct {
	HiddenUnits  int
	Epochs       int
	LearningRate float64
	Seed         int64
}

// DefaultNeuralConfig returns the configuration used by the backtest CLI
func DefaultNeuralConfig() NeuralConfig {
	return NeuralConfig{
		HiddenUnits:  16,
		Epochs:       200,
		LearningRate: 0.05,
		Seed:         1,
	}
}

// NeuralClassifier is a single-hidden-layer feedforward network with a
// sigmoid output for the probability of the positive class. Refitting
// reinitializes the weights from the seed, so repeated fits over expanding
// windows stay reproducible.
type NeuralClassifier struct {
	config NeuralConfig
	logger *logrus.Logger

	inputSize     int
	inputToHidden [][]float64
	hiddenToOut   []float64
	hiddenBiases  []float64
	outBias       float64

	// z-score normalization fitted on the training set
	featureMeans []float64
	featureStds  []float64

	fitted bool
}

// NewNeuralClassifier creates a classifier with the given configuration
func NewNeuralClassifier(cfg NeuralConfig, logger *logrus.Logger) *NeuralClassifier {
	if cfg.HiddenUnits <= 0 {
		cfg.HiddenUnits = 16
	}
	if cfg.Epochs <= 0 {
		cfg.Epochs = 200
	}
	if cfg.LearningRate <= 0 {
		cfg.LearningRate = 0.05
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &NeuralClassifier{config: cfg, logger: logger}
}

// Fit trains the network on the given feature rows and binary labels
func (nc *NeuralClassifier) Fit(features [][]float64, labels []int) error {
	if len(features) == 0 {
		return ErrNoTrainingData
	}
	if len(features) != len(labels) {
		return ErrInconsistentRows
	}
	if len(features) < minTrainingExamples {
		return ErrNoTrainingData
	}
	inputSize := len(features[0])
	for _, row := range features {
		if len(row) != inputSize {
			return ErrShapeMismatch
		}
	}
	for _, label := range labels {
		if label != 0 && label != 1 {
			return ErrLabelOutOfRange
		}
	}

	nc.inputSize = inputSize
	nc.fitNormalization(features)
	normalized := nc.normalize(features)

	rng := rand.New(rand.NewSource(nc.config.Seed))
	nc.initWeights(rng)

	order := make([]int, len(normalized))
	for i := range order {
		order[i] = i
	}

	for epoch := 0; epoch < nc.config.Epochs; epoch++ {
		rng.Shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})
		totalLoss := 0.0
		for _, i := range order {
			prob, hidden := nc.forward(normalized[i])
			target := float64(labels[i])
			clamped := math.Max(1e-10, math.Min(1-1e-10, prob))
			totalLoss += -(target*math.Log(clamped) + (1-target)*math.Log(1-clamped))
			nc.backpropagate(normalized[i], hidden, prob, target)
		}
		if epoch%50 == 0 {
			nc.logger.WithFields(logrus.Fields{
				"epoch": epoch,
				"loss":  totalLoss / float64(len(normalized)),
			}).Debug("Training epoch")
		}
	}

	nc.fitted = true
	return nil
}

// PredictProbability scores the probability of the positive class per row
func (nc *NeuralClassifier) PredictProbability(features [][]float64) ([]float64, error) {
	if !nc.fitted {
		return nil, ErrNotFitted
	}
	for _, row := range features {
		if len(row) != nc.inputSize {
			return nil, ErrShapeMismatch
		}
	}
	normalized := nc.normalize(features)
	probs := make([]float64, len(normalized))
	for i, row := range normalized {
		p, _ := nc.forward(row)
		probs[i] = p
	}
	return probs, nil
}

func (nc *NeuralClassifier) initWeights(rng *rand.Rand) {
	hidden := nc.config.HiddenUnits
	nc.inputToHidden = make([][]float64, nc.inputSize)
	for i := range nc.inputToHidden {
		nc.inputToHidden[i] = make([]float64, hidden)
		for j := range nc.inputToHidden[i] {
			nc.inputToHidden[i][j] = (rng.Float64() - 0.5) * 0.1
		}
	}
	nc.hiddenToOut = make([]float64, hidden)
	for j := range nc.hiddenToOut {
		nc.hiddenToOut[j] = (rng.Float64() - 0.5) * 0.1
	}
	nc.hiddenBiases = make([]float64, hidden)
	for j := range nc.hiddenBiases {
		nc.hiddenBiases[j] = (rng.Float64() - 0.5) * 0.1
	}
	nc.outBias = (rng.Float64() - 0.5) * 0.1
}

func (nc *NeuralClassifier) fitNormalization(features [][]float64) {
	nc.featureMeans = make([]float64, nc.inputSize)
	nc.featureStds = make([]float64, nc.inputSize)
	n := float64(len(features))
	for j := 0; j < nc.inputSize; j++ {
		sum := 0.0
		for _, row := range features {
			sum += row[j]
		}
		mean := sum / n
		variance := 0.0
		for _, row := range features {
			diff := row[j] - mean
			variance += diff * diff
		}
		std := math.Sqrt(variance / n)
		if std == 0 {
			std = 1
		}
		nc.featureMeans[j] = mean
		nc.featureStds[j] = std
	}
}

func (nc *NeuralClassifier) normalize(features [][]float64) [][]float64 {
	out := make([][]float64, len(features))
	for i, row := range features {
		normalized := make([]float64, len(row))
		for j, v := range row {
			normalized[j] = (v - nc.featureMeans[j]) / nc.featureStds[j]
		}
		out[i] = normalized
	}
	return out
}

// forward runs one pass and returns the positive-class probability plus the
// hidden activations needed for backpropagation
func (nc *NeuralClassifier) forward(row []float64) (float64, []float64) {
	hidden := make([]float64, nc.config.HiddenUnits)
	for j := range hidden {
		sum := nc.hiddenBiases[j]
		for i, v := range row {
			sum += v * nc.inputToHidden[i][j]
		}
		hidden[j] = math.Tanh(sum)
	}
	out := nc.outBias
	for j, h := range hidden {
		out += h * nc.hiddenToOut[j]
	}
	return sigmoid(out), hidden
}

func (nc *NeuralClassifier) backpropagate(row, hidden []float64, prob, target float64) {
	lr := nc.config.LearningRate
	outDelta := prob - target

	for j, h := range hidden {
		grad := outDelta * h
		hiddenDelta := outDelta * nc.hiddenToOut[j] * (1 - h*h)
		nc.hiddenToOut[j] -= lr * grad
		nc.hiddenBiases[j] -= lr * hiddenDelta
		for i, v := range row {
			nc.inputToHidden[i][j] -= lr * hiddenDelta * v
		}
	}
	nc.outBias -= lr * outDelta
}

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}
