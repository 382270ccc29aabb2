package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveRawName(t *testing.T) {
	cases := []struct {
		name    string
		prefix  string
		file    string
		wantRaw string
		wantOK  bool
	}{
		{"typical SPM prefix", "swra", "swrasub01_bold.nii", "sub01_bold.nii", true},
		{"underscore label", "final_", "final_img.nii", "img.nii", true},
		{"not a final file", "swra", "wrasub01_bold.nii", "", false},
		{"prefix elsewhere in name", "swra", "meanswra.nii", "", false},
		{"name equals prefix", "swra", "swra", "", true},
		{"case sensitive", "swra", "SWRAimg.nii", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw, ok := DeriveRawName(tc.prefix, tc.file)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.wantRaw, raw)
		})
	}
}

func TestDeriveRawName_StripsExactlyThePrefix(t *testing.T) {
	prefix := "swra"
	for _, f := range []string{"swraa.nii", "swraswra.nii", "swra.mat", "swra_run-01_bold.nii.gz"} {
		raw, ok := DeriveRawName(prefix, f)
		assert.True(t, ok, f)
		assert.Equal(t, f[len(prefix):], raw, f)
	}
}

func TestIsRawFileAssociated(t *testing.T) {
	raw := []string{"img.nii", "run2.nii"}
	cases := []struct {
		file string
		want bool
	}{
		{"img.nii", true},
		{"final_img.nii", true},
		{"rimg.nii", true},
		{"meanrun2.nii", true},
		{"img.mat", false},
		{"anat.nii", false},
		{"", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, IsRawFileAssociated(tc.file, raw), tc.file)
	}
	assert.False(t, IsRawFileAssociated("img.nii", nil))
}

func TestIsRawFileAssociated_SubstringFalsePositive(t *testing.T) {
	// Known risk: a short raw name matches an unrelated, longer name.
	assert.True(t, IsRawFileAssociated("sub10_bold.nii", []string{"sub1"}))
}

func TestShouldRetain(t *testing.T) {
	raw := []string{"img.nii"}
	keep := NewKeepList("final_", "rp_", "mean")
	cases := []struct {
		file string
		want bool
	}{
		{"img.nii", true},
		{"final_img.nii", true},
		{"rp_img.txt", true},
		{"meanimg.nii", true},
		{"rimg.nii", false},
		{"img_stage1.nii", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ShouldRetain(tc.file, raw, keep), tc.file)
	}
}

func TestShouldRetain_RawFileIgnoresKeepList(t *testing.T) {
	raw := []string{"img.nii", "img2.nii"}
	for _, keep := range []KeepList{NewKeepList(), NewKeepList("zzz")} {
		for _, r := range raw {
			assert.True(t, ShouldRetain(r, raw, keep), r)
		}
	}
}

func TestClassify(t *testing.T) {
	raw := []string{"img.nii"}
	keep := NewKeepList("final_", "rp_", "mean")
	cases := []struct {
		file string
		want Decision
	}{
		{"final_img.nii", Retain},
		{"img.nii", Retain},
		{"img_stage1.nii", Unrelated}, // does not contain "img.nii"
		{"rimg.nii", Dispose},
		{"img.nii_stage1", Dispose},
		{"mean_img.nii", Retain},
		{"notes.txt", Unrelated},
		{"mean_other.nii", Unrelated},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Classify(tc.file, raw, keep), tc.file)
	}
}

func TestDecisionString(t *testing.T) {
	assert.Equal(t, "retain", Retain.String())
	assert.Equal(t, "dispose", Dispose.String())
	assert.Equal(t, "unrelated", Unrelated.String())
}

func TestKeepList(t *testing.T) {
	kl := NewKeepList("swra", "rp_", "", "mean", "rp_")
	assert.Equal(t, []string{"swra", "rp_", "mean"}, kl.Prefixes())
	assert.Equal(t, 3, kl.Len())
	assert.True(t, kl.Matches("rp_img.txt"))
	assert.False(t, kl.Matches("img_rp_.txt"))
	assert.False(t, NewKeepList().Matches("anything"))

	p := kl.Prefixes()
	p[0] = "changed"
	assert.Equal(t, "swra", kl.Prefixes()[0])
}
