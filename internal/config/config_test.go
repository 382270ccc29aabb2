package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDirArg(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no trailing slash", "/data/study", "/data/study"},
		{"single trailing slash", "/data/study/", "/data/study"},
		{"multiple trailing slashes", "/data/study///", "/data/study"},
		{"root path", "/", "/"},
		{"relative path", "output", "output"},
		{"empty string", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDirArg(tt.in))
		})
	}
}

func validConfig() Config {
	cfg := DefaultConfig()
	cfg.InputDir = "/data/study"
	cfg.PreprocLabel = "swra"
	cfg.Method = MethodSimLink
	return cfg
}

func TestValidate_Method(t *testing.T) {
	tests := []struct {
		name    string
		method  Method
		wantErr error
	}{
		{"delete is valid", MethodDelete, nil},
		{"sim_link is valid", MethodSimLink, nil},
		{"sim_copy is valid", MethodSimCopy, nil},
		{"empty is missing", "", ErrMissingRequired},
		{"unknown is invalid", "sim_move", ErrInvalidMethod},
		{"case matters", "DELETE", ErrInvalidMethod},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Method = tt.method
			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidate_RequiredFields(t *testing.T) {
	cfg := validConfig()
	cfg.InputDir = ""
	assert.ErrorIs(t, cfg.Validate(), ErrMissingRequired)

	cfg = validConfig()
	cfg.PreprocLabel = ""
	assert.ErrorIs(t, cfg.Validate(), ErrMissingRequired)

	// -check only needs the input path.
	cfg = DefaultConfig()
	cfg.InputDir = "/data/study"
	cfg.CheckOnly = true
	assert.NoError(t, cfg.Validate())
}

func TestValidate_ColorMode(t *testing.T) {
	cfg := validConfig()
	cfg.ColorMode = "sometimes"
	assert.Error(t, cfg.Validate())
}

func TestMethod_SimulatedAndSuffix(t *testing.T) {
	assert.False(t, MethodDelete.Simulated())
	assert.True(t, MethodSimLink.Simulated())
	assert.True(t, MethodSimCopy.Simulated())
	assert.Equal(t, "", MethodDelete.Suffix())
	assert.Equal(t, "link", MethodSimLink.Suffix())
	assert.Equal(t, "copy", MethodSimCopy.Suffix())
}

func TestKeepPrefixes(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, []string{"swra", "rp_", "mean"}, cfg.KeepPrefixes())

	cfg.AlsoKeep = []string{"c1", "c2"}
	assert.Equal(t, []string{"swra", "rp_", "mean", "c1", "c2"}, cfg.KeepPrefixes())
}

func TestSimRoot(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, filepath.Join("/work", "SPMCleanup_Simulation_link"), cfg.SimRoot("/work"))

	cfg.Method = MethodSimCopy
	cfg.OutputDir = "/out"
	assert.Equal(t, filepath.Join("/out", "SPMCleanup_Simulation_copy"), cfg.SimRoot("/work"))

	cfg.Method = MethodDelete
	assert.Equal(t, "", cfg.SimRoot("/work"))
}

func TestValidatePaths(t *testing.T) {
	tests := []struct {
		name    string
		sim     string
		wantErr bool
	}{
		{"no simulation", "", false},
		{"outside input", "/work/SPMCleanup_Simulation_link", false},
		{"sibling with shared prefix", "/data/study2/SPMCleanup_Simulation_link", false},
		{"directly under input", "/data/study/SPMCleanup_Simulation_link", false},
		{"inside a subject", "/data/study/sub01/SPMCleanup_Simulation_link", true},
		{"equal to input", "/data/study", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			err := cfg.ValidatePaths("/data/study", tt.sim)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrSimRootInsideSubject)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseFlags(t *testing.T) {
	cfg := DefaultConfig()
	err := ParseFlags(&cfg, []string{
		"-input_path", "/data/study/",
		"-preproc_label", "swra",
		"-method", "sim_copy",
		"-rel_path", "func",
		"-also_keep", "c1, c2,",
		"-out_path", "/tmp/out/",
		"-no-color",
		"-v",
	})
	require.NoError(t, err)

	assert.Equal(t, "/data/study", cfg.InputDir)
	assert.Equal(t, "swra", cfg.PreprocLabel)
	assert.Equal(t, MethodSimCopy, cfg.Method)
	assert.Equal(t, "func", cfg.RelPath)
	assert.Equal(t, []string{"c1", "c2"}, cfg.AlsoKeep)
	assert.Equal(t, "/tmp/out", cfg.OutputDir)
	assert.Equal(t, ColorNever, cfg.ColorMode)
	assert.True(t, cfg.Verbose)
	require.NoError(t, cfg.Validate())
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"c1,c2", []string{"c1", "c2"}},
		{" mean , rp_ ", []string{"mean", "rp_"}},
		{"c1,,c2,", []string{"c1", "c2"}},
		{" , ", nil},
		{"", nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SplitList(tt.in), "%q", tt.in)
	}
}

func TestParseFlags_InvalidMethodIsConfigurationError(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, ParseFlags(&cfg, []string{
		"-input_path", "/data", "-preproc_label", "s", "-method", "erase",
	}))
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidMethod)
}

func TestParseFlags_RejectsPositionalArgs(t *testing.T) {
	cfg := DefaultConfig()
	assert.Error(t, ParseFlags(&cfg, []string{"-input_path", "/data", "extra"}))
}

func TestParseFlags_HelpAndVersion(t *testing.T) {
	cfg := DefaultConfig()
	assert.ErrorIs(t, ParseFlags(&cfg, []string{"-h"}), flag.ErrHelp)
	assert.ErrorIs(t, ParseFlags(&cfg, []string{"-version"}), ErrVersion)
}

func TestLoadFile_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "spmcleanup.yaml")
	content := `input_path: /data/study
preproc_label: swra
method: sim_link
also_keep:
  - c1
  - c2
color: never
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg := DefaultConfig()
	cfg.RelPath = "func"
	require.NoError(t, LoadFile(&cfg, path))

	assert.Equal(t, "/data/study", cfg.InputDir)
	assert.Equal(t, "swra", cfg.PreprocLabel)
	assert.Equal(t, MethodSimLink, cfg.Method)
	assert.Equal(t, []string{"c1", "c2"}, cfg.AlsoKeep)
	assert.Equal(t, ColorNever, cfg.ColorMode)
	assert.Equal(t, "func", cfg.RelPath, "unset keys keep their previous value")
}

func TestLoadFile_MissingFile(t *testing.T) {
	cfg := DefaultConfig()
	assert.Error(t, LoadFile(&cfg, filepath.Join(t.TempDir(), "nope.yaml")))
}

func TestLoadFile_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "spmcleanup.yaml")
	require.NoError(t, os.WriteFile(path, []byte("preproc_label: swra\nmethod: delete\n"), 0o644))

	t.Setenv("SPMCLEANUP_METHOD", "sim_copy")
	t.Setenv("SPMCLEANUP_ALSO_KEEP", "c1,c2")

	cfg := DefaultConfig()
	require.NoError(t, LoadFile(&cfg, path))
	assert.Equal(t, "swra", cfg.PreprocLabel)
	assert.Equal(t, MethodSimCopy, cfg.Method)
	assert.Equal(t, []string{"c1", "c2"}, cfg.AlsoKeep)
}

func TestParseFlags_FlagsOverrideConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "spmcleanup.yaml")
	require.NoError(t, os.WriteFile(path, []byte("input_path: /from/file\npreproc_label: swra\nmethod: delete\n"), 0o644))

	cfg := DefaultConfig()
	require.NoError(t, ParseFlags(&cfg, []string{"-config", path, "-method", "sim_link"}))
	assert.Equal(t, "/from/file", cfg.InputDir)
	assert.Equal(t, "swra", cfg.PreprocLabel)
	assert.Equal(t, MethodSimLink, cfg.Method)
}
