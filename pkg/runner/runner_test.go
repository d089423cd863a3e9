package runner

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleSet(count int) CaseSet {
	set := CaseSet{TimeLimitSec: 1, MemoryLimitMB: 64}
	for i := 0; i < count; i++ {
		set.Cases = append(set.Cases, Case{
			Index:          i,
			Input:          fmt.Sprintf("%d %d", i, i+1),
			ExpectedOutput: fmt.Sprintf("%d", 2*i+1),
		})
	}
	return set
}

func TestSimulatedRunnerOneOutcomePerCase(t *testing.T) {
	r := NewSimulatedRunner()
	set := sampleSet(5)

	outcomes, err := r.RunCases(context.Background(), "int main(){return 0;}", set)
	require.NoError(t, err)
	require.Len(t, outcomes, len(set.Cases))

	for i, outcome := range outcomes {
		require.Equal(t, i, outcome.CaseIndex)
		require.Equal(t, set.Cases[i].ExpectedOutput, outcome.ExpectedOutput)
		if outcome.Passed {
			require.Equal(t, outcome.ExpectedOutput, outcome.ActualOutput)
		} else {
			require.NotEmpty(t, outcome.Detail)
		}
	}
}

func TestSimulatedRunnerIsDeterministic(t *testing.T) {
	r := NewSimulatedRunner()
	set := sampleSet(10)
	code := "#include <stdio.h>\nint main(){printf(\"x\");return 0;}"

	first, err := r.RunCases(context.Background(), code, set)
	require.NoError(t, err)
	second, err := r.RunCases(context.Background(), code, set)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestSimulatedRunnerVariesWithCode(t *testing.T) {
	r := NewSimulatedRunner()
	set := sampleSet(50)

	a, err := r.RunCases(context.Background(), "int main(){return 0;}", set)
	require.NoError(t, err)
	b, err := r.RunCases(context.Background(), "int main(){return 1;}", set)
	require.NoError(t, err)

	require.NotEqual(t, a, b, "different code should not judge identically over 50 cases")
}

func TestSimulatedRunnerEmptySet(t *testing.T) {
	r := NewSimulatedRunner()

	outcomes, err := r.RunCases(context.Background(), "anything", CaseSet{})
	require.NoError(t, err)
	require.Empty(t, outcomes)
}
