package stegastamp_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stegastamp-go/stegastamp/internal/backend/cpu"
	"github.com/stegastamp-go/stegastamp/internal/nn"
	"github.com/stegastamp-go/stegastamp/internal/stegastamp"
	"github.com/stegastamp-go/stegastamp/internal/tensor"
)

type Backend = *cpu.CPUBackend

func config(resolution, channels, fingerprintSize int) stegastamp.Config {
	return stegastamp.Config{
		Resolution:      resolution,
		ImageChannels:   channels,
		FingerprintSize: fingerprintSize,
	}
}

func randomInputs(backend Backend, cfg stegastamp.Config, batch int) (image, fingerprint *tensor.Tensor[float32, Backend]) {
	image = tensor.Rand[float32](tensor.Shape{batch, cfg.ImageChannels, cfg.Resolution, cfg.Resolution}, backend)
	fingerprint = tensor.Zeros[float32](tensor.Shape{batch, cfg.FingerprintSize}, backend)
	data := fingerprint.Data()
	for i := range data {
		if i%3 == 0 {
			data[i] = 1
		}
	}
	return image, fingerprint
}

func TestDefaultConfigs(t *testing.T) {
	assert.Equal(t, stegastamp.Config{Resolution: 32, ImageChannels: 3, FingerprintSize: 128}, stegastamp.DefaultConfig())
	assert.Equal(t, stegastamp.Config{Resolution: 128, ImageChannels: 3, FingerprintSize: 128}, stegastamp.DefaultModelConfig())
	assert.NoError(t, stegastamp.DefaultConfig().Validate())
	assert.NoError(t, stegastamp.DefaultModelConfig().Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     stegastamp.Config
		wantErr error
	}{
		{"16", config(16, 3, 128), nil},
		{"32", config(32, 3, 128), nil},
		{"256 gray", config(256, 1, 8), nil},
		{"not a power of two", config(30, 3, 128), stegastamp.ErrInvalidResolution},
		{"48", config(48, 3, 128), stegastamp.ErrInvalidResolution},
		{"8 too small", config(8, 3, 128), stegastamp.ErrInvalidResolution},
		{"zero", config(0, 3, 128), stegastamp.ErrInvalidResolution},
		{"negative", config(-32, 3, 128), stegastamp.ErrInvalidResolution},
		{"no channels", config(32, 0, 128), stegastamp.ErrInvalidConfig},
		{"no fingerprint", config(32, 3, 0), stegastamp.ErrInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewEncoder_Resolution(t *testing.T) {
	backend := cpu.New()

	_, err := stegastamp.NewEncoder(config(30, 3, 128), backend)
	assert.ErrorIs(t, err, stegastamp.ErrInvalidResolution)

	_, err = stegastamp.NewEncoder(config(8, 3, 128), backend)
	assert.ErrorIs(t, err, stegastamp.ErrInvalidResolution)

	_, err = stegastamp.NewEncoder(config(32, 3, 0), backend)
	assert.ErrorIs(t, err, stegastamp.ErrInvalidConfig)

	for _, r := range []int{16, 32} {
		enc, err := stegastamp.NewEncoder(config(r, 3, 128), backend)
		require.NoError(t, err, "resolution %d", r)
		assert.NotNil(t, enc)
	}
}

func TestNewDecoder_Resolution(t *testing.T) {
	backend := cpu.New()

	// 16 passes Validate but the convolution stack does not reach R/32.
	_, err := stegastamp.NewDecoder(config(16, 3, 128), backend)
	assert.ErrorIs(t, err, stegastamp.ErrInvalidResolution)

	_, err = stegastamp.NewDecoder(config(30, 3, 128), backend)
	assert.ErrorIs(t, err, stegastamp.ErrInvalidResolution)

	for _, r := range []int{32, 64} {
		dec, err := stegastamp.NewDecoder(config(r, 3, 128), backend)
		require.NoError(t, err, "resolution %d", r)
		assert.NotNil(t, dec)
	}
}

func TestEncoder_Forward(t *testing.T) {
	backend := cpu.New()

	tests := []struct {
		name  string
		cfg   stegastamp.Config
		batch int
	}{
		{"default", stegastamp.DefaultConfig(), 1},
		{"16 batched", config(16, 3, 32), 3},
		{"gray 64", config(64, 1, 16), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, err := stegastamp.NewEncoder(tt.cfg, backend)
			require.NoError(t, err)

			image, fp := randomInputs(backend, tt.cfg, tt.batch)
			out := enc.Forward(image, fp)

			assert.Equal(t, image.Shape(), out.Shape())
			for _, v := range out.Data() {
				require.GreaterOrEqual(t, v, float32(0))
				require.LessOrEqual(t, v, float32(1))
			}
		})
	}
}

func TestEncoder_ReturnResidual(t *testing.T) {
	backend := cpu.New()

	cfg := stegastamp.DefaultConfig()
	cfg.Seed = 11
	stego, err := stegastamp.NewEncoder(cfg, backend)
	require.NoError(t, err)

	cfg.ReturnResidual = true
	residual, err := stegastamp.NewEncoder(cfg, backend)
	require.NoError(t, err)

	image, fp := randomInputs(backend, cfg, 2)
	res := residual.Forward(image, fp)
	img := stego.Forward(image, fp)
	require.Equal(t, image.Shape(), res.Shape())

	// Same weights: the bounded output is exactly the sigmoid of the residual.
	want := make([]float32, res.NumElements())
	for i, v := range res.Data() {
		want[i] = float32(1 / (1 + math.Exp(-float64(v))))
	}
	assert.InDeltaSlice(t, want, img.Data(), 1e-6)
}

func TestEncoder_FingerprintChangesOutput(t *testing.T) {
	backend := cpu.New()
	cfg := stegastamp.DefaultConfig()
	cfg.Seed = 5

	enc, err := stegastamp.NewEncoder(cfg, backend)
	require.NoError(t, err)

	image, fp := randomInputs(backend, cfg, 1)
	other := tensor.Ones[float32](fp.Shape(), backend)

	assert.NotEqual(t, enc.Forward(image, fp).Data(), enc.Forward(image, other).Data())
}

func TestEncoder_InvalidInputs(t *testing.T) {
	backend := cpu.New()
	cfg := stegastamp.DefaultConfig()
	enc, err := stegastamp.NewEncoder(cfg, backend)
	require.NoError(t, err)

	image, fp := randomInputs(backend, cfg, 2)
	wrongRes, _ := randomInputs(backend, config(64, 3, 128), 2)
	_, fpOne := randomInputs(backend, cfg, 1)
	_, fpShort := randomInputs(backend, config(32, 3, 64), 2)

	assert.Panics(t, func() { enc.Forward(wrongRes, fp) })
	assert.Panics(t, func() { enc.Forward(image, fpOne) })
	assert.Panics(t, func() { enc.Forward(image, fpShort) })
	assert.Panics(t, func() { enc.Forward(image.Reshape(2, 3, 1024), fp) })
}

func TestDecoder_Forward(t *testing.T) {
	backend := cpu.New()

	tests := []struct {
		name  string
		cfg   stegastamp.Config
		batch int
	}{
		{"default", stegastamp.DefaultConfig(), 2},
		{"64 gray", config(64, 1, 48), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec, err := stegastamp.NewDecoder(tt.cfg, backend)
			require.NoError(t, err)

			image, _ := randomInputs(backend, tt.cfg, tt.batch)
			logits := dec.Forward(image)
			assert.Equal(t, tensor.Shape{tt.batch, tt.cfg.FingerprintSize}, logits.Shape())
		})
	}
}

func TestDecoder_InvalidInputs(t *testing.T) {
	backend := cpu.New()
	dec, err := stegastamp.NewDecoder(stegastamp.DefaultConfig(), backend)
	require.NoError(t, err)

	assert.Panics(t, func() { dec.Forward(tensor.Zeros[float32](tensor.Shape{1, 3, 64, 64}, backend)) })
	assert.Panics(t, func() { dec.Forward(tensor.Zeros[float32](tensor.Shape{1, 1, 32, 32}, backend)) })
}

func TestParameterCounts(t *testing.T) {
	backend := cpu.New()

	enc, err := stegastamp.NewEncoder(stegastamp.DefaultConfig(), backend)
	require.NoError(t, err)
	dec, err := stegastamp.NewDecoder(stegastamp.DefaultConfig(), backend)
	require.NoError(t, err)

	assert.Equal(t, 1090819, nn.NumParameters(enc.Parameters()))
	assert.Equal(t, 455648, nn.NumParameters(dec.Parameters()))

	gray, err := stegastamp.NewEncoder(config(64, 1, 64), backend)
	require.NoError(t, err)
	assert.Equal(t, 1006017, nn.NumParameters(gray.Parameters()))
}

func TestIndependentInitialization(t *testing.T) {
	backend := cpu.New()

	a, err := stegastamp.NewEncoder(stegastamp.DefaultConfig(), backend)
	require.NoError(t, err)
	b, err := stegastamp.NewEncoder(stegastamp.DefaultConfig(), backend)
	require.NoError(t, err)

	pa, pb := a.Parameters(), b.Parameters()
	require.Len(t, pb, len(pa))
	for i := range pa {
		assert.Equal(t, pa[i].Shape(), pb[i].Shape())
	}
	assert.NotEqual(t, pa[0].Tensor().Data(), pb[0].Tensor().Data())
}

func TestSeededInitialization(t *testing.T) {
	backend := cpu.New()
	cfg := stegastamp.DefaultConfig()
	cfg.Seed = 2024

	a, err := stegastamp.NewEncoder(cfg, backend)
	require.NoError(t, err)
	b, err := stegastamp.NewEncoder(cfg, backend)
	require.NoError(t, err)

	image, fp := randomInputs(backend, cfg, 1)
	assert.Equal(t, a.Forward(image, fp).Data(), b.Forward(image, fp).Data())
}

func TestModel_Composition(t *testing.T) {
	backend := cpu.New()
	cfg := stegastamp.DefaultConfig()
	cfg.ReturnResidual = true

	model, err := stegastamp.NewModel(cfg, backend)
	require.NoError(t, err)
	assert.False(t, model.Config().ReturnResidual)

	image, fp := randomInputs(backend, cfg, 2)
	out := model.Forward(image, fp)

	require.Equal(t, image.Shape(), out.Encoder.Shape())
	require.Equal(t, tensor.Shape{2, cfg.FingerprintSize}, out.Decoder.Shape())
	for _, v := range out.Encoder.Data() {
		require.GreaterOrEqual(t, v, float32(0))
		require.LessOrEqual(t, v, float32(1))
	}

	assert.InDeltaSlice(t, model.Encoder().Forward(image, fp).Data(), out.Encoder.Data(), 1e-6)
	assert.InDeltaSlice(t, model.Decoder().Forward(out.Encoder).Data(), out.Decoder.Data(), 1e-6)
}

func TestModel_EndToEndDefaults(t *testing.T) {
	backend := cpu.New()

	model, err := stegastamp.NewModel(stegastamp.DefaultConfig(), backend)
	require.NoError(t, err)

	image := tensor.Rand[float32](tensor.Shape{1, 3, 32, 32}, backend)
	fp := tensor.Zeros[float32](tensor.Shape{1, 128}, backend)
	out := model.Forward(image, fp)

	assert.Equal(t, tensor.Shape{1, 3, 32, 32}, out.Encoder.Shape())
	assert.Equal(t, tensor.Shape{1, 128}, out.Decoder.Shape())
}

func TestModel_Construction(t *testing.T) {
	backend := cpu.New()

	_, err := stegastamp.NewModel(config(16, 3, 128), backend)
	assert.ErrorIs(t, err, stegastamp.ErrInvalidResolution)

	model, err := stegastamp.NewModel(stegastamp.DefaultModelConfig(), backend)
	require.NoError(t, err)
	assert.Equal(t, 1090819+1438688, nn.NumParameters(model.Parameters()))

	summary := model.Summary()
	require.Len(t, summary, len(model.Encoder().Layers())+len(model.Decoder().Layers()))
	assert.Equal(t, "encoder.secret_dense", summary[0].Name)
	assert.Equal(t, 128*768+768, summary[0].Parameters)
	assert.Equal(t, "decoder.dense2", summary[len(summary)-1].Name)

	total := 0
	for _, row := range summary {
		total += row.Parameters
	}
	assert.Equal(t, nn.NumParameters(model.Parameters()), total)
	assert.Contains(t, model.String(), "StegaStampEncoder(resolution=128")
}

func TestModel_SeededMatchesStandaloneEncoder(t *testing.T) {
	backend := cpu.New()
	cfg := stegastamp.DefaultConfig()
	cfg.Seed = 99

	model, err := stegastamp.NewModel(cfg, backend)
	require.NoError(t, err)
	enc, err := stegastamp.NewEncoder(cfg, backend)
	require.NoError(t, err)

	mp, ep := model.Encoder().Parameters(), enc.Parameters()
	require.Len(t, mp, len(ep))
	for i := range ep {
		assert.Equal(t, ep[i].Tensor().Data(), mp[i].Tensor().Data())
	}
}
