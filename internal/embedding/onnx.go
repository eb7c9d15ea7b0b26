package embedding

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"sync"

	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
	ort "github.com/yalue/onnxruntime_go"
)

// #region config

// OnnxConfig locates a sentence-transformers ONNX export and its tokenizer.
type OnnxConfig struct {
	RuntimeLib    string // path to the onnxruntime shared library; empty = ORT default
	ModelPath     string // model.onnx
	TokenizerPath string // tokenizer.json
	MaxSeqLen     int    // tokens kept per text, including special tokens
	Dimension     int    // hidden size of last_hidden_state
}

// DefaultOnnxConfig returns settings for all-MiniLM-L6-v2.
func DefaultOnnxConfig() OnnxConfig {
	return OnnxConfig{
		ModelPath:     "./models/all-MiniLM-L6-v2/model.onnx",
		TokenizerPath: "./models/all-MiniLM-L6-v2/tokenizer.json",
		MaxSeqLen:     256,
		Dimension:     384,
	}
}

// #endregion config

// #region onnx-embedder

var (
	onnxInputNames  = []string{"input_ids", "attention_mask", "token_type_ids"}
	onnxOutputNames = []string{"last_hidden_state"}
)

// OnnxEmbedder runs a local transformer encoder through onnxruntime and
// mean-pools its token states into a unit vector.
type OnnxEmbedder struct {
	cfg     OnnxConfig
	mu      sync.Mutex
	tk      *tokenizer.Tokenizer
	session *ort.DynamicAdvancedSession
}

// NewOnnxEmbedder loads the tokenizer and model. The ORT environment is
// initialized once per process.
func NewOnnxEmbedder(cfg OnnxConfig) (*OnnxEmbedder, error) {
	if cfg.ModelPath == "" || cfg.TokenizerPath == "" {
		return nil, errors.New("onnx: model and tokenizer paths are required")
	}
	def := DefaultOnnxConfig()
	if cfg.MaxSeqLen <= 0 {
		cfg.MaxSeqLen = def.MaxSeqLen
	}
	if cfg.Dimension <= 0 {
		cfg.Dimension = def.Dimension
	}

	tk, err := pretrained.FromFile(cfg.TokenizerPath)
	if err != nil {
		return nil, fmt.Errorf("load tokenizer %s: %w", cfg.TokenizerPath, err)
	}

	if !ort.IsInitialized() {
		if cfg.RuntimeLib != "" {
			ort.SetSharedLibraryPath(cfg.RuntimeLib)
		}
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("init onnxruntime: %w", err)
		}
	}

	session, err := ort.NewDynamicAdvancedSession(cfg.ModelPath, onnxInputNames, onnxOutputNames, nil)
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", cfg.ModelPath, err)
	}
	return &OnnxEmbedder{cfg: cfg, tk: tk, session: session}, nil
}

// Embed tokenizes text, runs the encoder and returns the pooled embedding.
func (o *OnnxEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.session == nil {
		return nil, errors.New("onnx: embedder is closed")
	}

	enc, err := o.tk.EncodeSingle(text, true)
	if err != nil {
		return nil, fmt.Errorf("tokenize: %w", err)
	}
	ids, mask, types := truncateEncoding(enc.Ids, enc.AttentionMask, enc.TypeIds, o.cfg.MaxSeqLen)
	if len(ids) == 0 {
		return nil, errors.New("onnx: tokenizer produced no tokens")
	}

	seq := int64(len(ids))
	inShape := ort.NewShape(1, seq)
	idsT, err := ort.NewTensor(inShape, toInt64(ids))
	if err != nil {
		return nil, fmt.Errorf("input_ids tensor: %w", err)
	}
	defer idsT.Destroy()
	maskT, err := ort.NewTensor(inShape, toInt64(mask))
	if err != nil {
		return nil, fmt.Errorf("attention_mask tensor: %w", err)
	}
	defer maskT.Destroy()
	typesT, err := ort.NewTensor(inShape, toInt64(types))
	if err != nil {
		return nil, fmt.Errorf("token_type_ids tensor: %w", err)
	}
	defer typesT.Destroy()

	out, err := ort.NewEmptyTensor[float32](ort.NewShape(1, seq, int64(o.cfg.Dimension)))
	if err != nil {
		return nil, fmt.Errorf("output tensor: %w", err)
	}
	defer out.Destroy()

	if err := o.session.Run([]ort.Value{idsT, maskT, typesT}, []ort.Value{out}); err != nil {
		return nil, fmt.Errorf("onnx run: %w", err)
	}
	return meanPool(out.GetData(), mask, o.cfg.Dimension)
}

// ModelID returns "onnx:<model file>".
func (o *OnnxEmbedder) ModelID() string {
	return "onnx:" + filepath.Base(o.cfg.ModelPath)
}

// Close releases the session and the ORT environment.
func (o *OnnxEmbedder) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.session == nil {
		return nil
	}
	err := o.session.Destroy()
	o.session = nil
	if derr := ort.DestroyEnvironment(); derr != nil && err == nil {
		err = derr
	}
	return err
}

// #endregion onnx-embedder

// #region pooling

// truncateEncoding keeps at most maxLen tokens, preserving the final special
// token. type ids default to 0 and mask to 1 when the tokenizer omits them.
func truncateEncoding(ids, mask, types []int, maxLen int) ([]int, []int, []int) {
	n := len(ids)
	outIDs := make([]int, n)
	outMask := make([]int, n)
	outTypes := make([]int, n)
	copy(outIDs, ids)
	for i := 0; i < n; i++ {
		outMask[i] = 1
		if i < len(mask) {
			outMask[i] = mask[i]
		}
		if i < len(types) {
			outTypes[i] = types[i]
		}
	}
	if maxLen <= 0 || n <= maxLen {
		return outIDs, outMask, outTypes
	}
	last := outIDs[n-1]
	outIDs, outMask, outTypes = outIDs[:maxLen], outMask[:maxLen], outTypes[:maxLen]
	outIDs[maxLen-1] = last
	return outIDs, outMask, outTypes
}

// meanPool averages token states weighted by the attention mask and
// L2-normalizes the result. hidden is laid out [seq][dim].
func meanPool(hidden []float32, mask []int, dim int) ([]float32, error) {
	if dim <= 0 || len(hidden) != len(mask)*dim {
		return nil, fmt.Errorf("onnx: output size %d does not match %d tokens x %d", len(hidden), len(mask), dim)
	}
	sum := make([]float64, dim)
	var count float64
	for t, m := range mask {
		if m == 0 {
			continue
		}
		count++
		row := hidden[t*dim : (t+1)*dim]
		for i, v := range row {
			sum[i] += float64(v)
		}
	}
	if count == 0 {
		return nil, errors.New("onnx: attention mask is empty")
	}

	var norm float64
	for i := range sum {
		sum[i] /= count
		norm += sum[i] * sum[i]
	}
	norm = math.Sqrt(norm)
	out := make([]float32, dim)
	if norm == 0 {
		return out, nil
	}
	for i, v := range sum {
		out[i] = float32(v / norm)
	}
	return out, nil
}

func toInt64(v []int) []int64 {
	out := make([]int64, len(v))
	for i, x := range v {
		out[i] = int64(x)
	}
	return out
}

// #endregion pooling
