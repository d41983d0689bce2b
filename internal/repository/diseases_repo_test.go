package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiseaseCatalog_WeightsSumToOne(t *testing.T) {
	repo := NewMemoryDiseasesRepo()

	sum := 0.0
	for _, rec := range repo.List() {
		sum += rec.Weight
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestDiseaseCatalog_Get(t *testing.T) {
	repo := NewMemoryDiseasesRepo()

	rec, ok := repo.Get("Glaucoma")
	require.True(t, ok)
	assert.Equal(t, "Glaucoma", rec.Name)
	assert.NotEmpty(t, rec.Symptoms)
	assert.NotEmpty(t, rec.Recommendations)

	_, ok = repo.Get("Conjunctivitis")
	assert.False(t, ok)
}

func TestPickByWeight_CumulativeWalk(t *testing.T) {
	repo := NewMemoryDiseasesRepo()

	// 顺序：Normal .30 / Diabetic Retinopathy .25 / Glaucoma .20 / Cataract .15 / AMD .10
	cases := []struct {
		draw string
		val  float64
		want string
	}{
		{"zero", 0.0, "Normal"},
		{"boundary normal", 0.30, "Normal"},
		{"just past normal", 0.300001, "Diabetic Retinopathy"},
		{"middle", 0.55, "Diabetic Retinopathy"},
		{"glaucoma range", 0.74, "Glaucoma"},
		{"cataract range", 0.80, "Cataract"},
		{"amd range", 0.95, "Age-related Macular Degeneration"},
		{"top of range", 0.999999, "Age-related Macular Degeneration"},
	}
	for _, tc := range cases {
		got := repo.PickByWeight(tc.val)
		assert.Equal(t, tc.want, got.Name, "draw %s (%v)", tc.draw, tc.val)
	}
}

func TestPickByWeight_DriftFallsBackToNormal(t *testing.T) {
	repo := NewMemoryDiseasesRepo()

	// draw 超出累计权重合计时静默回落到 Normal（保持原有行为）
	got := repo.PickByWeight(1.5)
	assert.Equal(t, "Normal", got.Name)
}
