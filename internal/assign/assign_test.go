package assign

import (
	"errors"
	"testing"

	"github.com/mvittori/trialgen/internal/config"
	"github.com/mvittori/trialgen/internal/population"
	"github.com/mvittori/trialgen/internal/rng"
	"github.com/mvittori/trialgen/internal/schema"
)

func samplePop(t *testing.T, n int, seed uint64) []population.Subject {
	t.Helper()
	cfg := config.Default()
	return population.Sample(n, cfg.Covariates, rng.New(seed).Stage(rng.StageCovariates))
}

func poolBlocking() config.BlockingConfig {
	b := config.Default().Blocking
	b.SmallBlockPolicy = config.SmallBlockPool
	return b
}

func TestAssignCoversEverySubject(t *testing.T) {
	subjects := samplePop(t, 1200, 1)
	blocking := poolBlocking()
	assignments, _, err := Assign(subjects, blocking, rng.New(1).Stage(rng.StageAssignment))
	if err != nil {
		t.Fatalf("Assign() error = %v", err)
	}
	if len(assignments) != len(subjects) {
		t.Fatalf("assigned %d subjects, want %d", len(assignments), len(subjects))
	}
	for _, s := range subjects {
		arm, ok := assignments[s.ID]
		if !ok {
			t.Fatalf("subject %s has no assignment", s.ID)
		}
		if !arm.Valid() {
			t.Fatalf("subject %s assigned invalid arm %q", s.ID, arm)
		}
	}
}

func TestBlockBalanceWithinOne(t *testing.T) {
	subjects := samplePop(t, 3000, 2)
	blocking := poolBlocking()
	_, reports, err := Assign(subjects, blocking, rng.New(2).Stage(rng.StageAssignment))
	if err != nil {
		t.Fatalf("Assign() error = %v", err)
	}
	for _, r := range reports {
		third := float64(r.Size) / 3
		for _, arm := range schema.Treatments() {
			diff := float64(r.Counts[arm]) - third
			if diff > 1 || diff < -1 {
				t.Errorf("block %q: arm %s count %d deviates from %d/3 by more than 1",
					r.Key, arm, r.Counts[arm], r.Size)
			}
		}
	}
}

func TestMarginalRateNearThird(t *testing.T) {
	subjects := samplePop(t, 5000, 3)
	blocking := poolBlocking()
	assignments, _, err := Assign(subjects, blocking, rng.New(3).Stage(rng.StageAssignment))
	if err != nil {
		t.Fatalf("Assign() error = %v", err)
	}
	counts := make(map[schema.Treatment]int)
	for _, arm := range assignments {
		counts[arm]++
	}
	for _, arm := range schema.Treatments() {
		frac := float64(counts[arm]) / float64(len(assignments))
		if frac < 0.3133 || frac > 0.3533 {
			t.Errorf("arm %s marginal rate %.4f, want within 2pp of 1/3", arm, frac)
		}
	}
}

func TestAssignDeterministic(t *testing.T) {
	subjects := samplePop(t, 600, 4)
	blocking := poolBlocking()
	a, _, err := Assign(subjects, blocking, rng.New(4).Stage(rng.StageAssignment))
	if err != nil {
		t.Fatal(err)
	}
	b, _, err := Assign(subjects, blocking, rng.New(4).Stage(rng.StageAssignment))
	if err != nil {
		t.Fatal(err)
	}
	for id, arm := range a {
		if b[id] != arm {
			t.Fatalf("subject %s: arm %s vs %s between identically-seeded runs", id, arm, b[id])
		}
	}
}

func TestSmallBlockErrorPolicy(t *testing.T) {
	// Blocking on state with a tiny population guarantees undersized strata.
	subjects := samplePop(t, 30, 5)
	blocking := config.BlockingConfig{
		Covariates:       []string{schema.ColState},
		SmallBlockPolicy: config.SmallBlockError,
		MinBlockSize:     3,
	}
	_, _, err := Assign(subjects, blocking, rng.New(5).Stage(rng.StageAssignment))
	var tooSmall *BlockTooSmallError
	if !errors.As(err, &tooSmall) {
		t.Fatalf("Assign() error = %v, want *BlockTooSmallError", err)
	}
	if tooSmall.Block == "" || tooSmall.Min != 3 {
		t.Errorf("BlockTooSmallError = %+v, want named block and Min=3", tooSmall)
	}
}

func TestSmallBlockPoolPolicy(t *testing.T) {
	subjects := samplePop(t, 60, 6)
	blocking := config.BlockingConfig{
		Covariates:       []string{schema.ColState},
		SmallBlockPolicy: config.SmallBlockPool,
		MinBlockSize:     3,
	}
	assignments, reports, err := Assign(subjects, blocking, rng.New(6).Stage(rng.StageAssignment))
	if err != nil {
		t.Fatalf("Assign() with pool policy error = %v", err)
	}
	if len(assignments) != len(subjects) {
		t.Fatalf("assigned %d, want %d", len(assignments), len(subjects))
	}
	found := false
	for _, r := range reports {
		if r.Key == PooledBlockKey {
			found = true
			if r.Size < 3 {
				t.Errorf("pooled block size %d, want >= 3", r.Size)
			}
		}
	}
	if !found {
		t.Error("no pooled block in reports despite undersized strata")
	}
}

func TestPoolFoldsTinyRemainder(t *testing.T) {
	// Six Female subjects form a proper block; the two Male subjects are too
	// few to balance alone, so they join the largest block instead of
	// standing as an undersized pool.
	subjects := make([]population.Subject, 0, 8)
	for i := 0; i < 6; i++ {
		subjects = append(subjects, population.Subject{ID: "1000" + string(rune('0'+i)), Gender: "Female"})
	}
	subjects = append(subjects,
		population.Subject{ID: "20001", Gender: "Male"},
		population.Subject{ID: "20002", Gender: "Male"},
	)
	blocking := config.BlockingConfig{
		Covariates:       []string{schema.ColGender},
		SmallBlockPolicy: config.SmallBlockPool,
		MinBlockSize:     3,
	}
	assignments, reports, err := Assign(subjects, blocking, rng.New(9).Stage(rng.StageAssignment))
	if err != nil {
		t.Fatalf("Assign() error = %v", err)
	}
	if len(assignments) != 8 {
		t.Fatalf("assigned %d subjects, want 8", len(assignments))
	}
	if len(reports) != 1 {
		t.Fatalf("reports = %+v, want a single folded block", reports)
	}
	if reports[0].Key != "Female" || reports[0].Size != 8 {
		t.Errorf("folded block = %+v, want Female with 8 subjects", reports[0])
	}
}

func TestBlockKeyOrdersCovariates(t *testing.T) {
	s := population.Subject{Gender: "Female", AgeGroup: "25-34"}
	if got := BlockKey(s, []string{schema.ColAgeGroup, schema.ColGender}); got != "25-34|Female" {
		t.Errorf("BlockKey = %q, want %q", got, "25-34|Female")
	}
	if got := BlockKey(s, []string{schema.ColGender, schema.ColAgeGroup}); got != "Female|25-34" {
		t.Errorf("BlockKey = %q, want %q", got, "Female|25-34")
	}
}
