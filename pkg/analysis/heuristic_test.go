package analysis

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHeuristicScoreBoundsOnEmptyCode(t *testing.T) {
	analyzer := NewHeuristicAnalyzer()

	report, err := analyzer.Analyze(context.Background(), Input{Code: "", Title: "Hello World Program"})
	require.NoError(t, err)
	require.GreaterOrEqual(t, report.Score, 0)
	require.LessOrEqual(t, report.Score, 100)
	require.NotEmpty(t, report.Suggestions)
}

func TestHeuristicScoreBoundsOnMaximallyMatchingCode(t *testing.T) {
	analyzer := NewHeuristicAnalyzer()
	code := `#include <stdio.h>
// greet the world
int main(void) {
	printf("Hello, World!\n");
	return 0;
}`

	report, err := analyzer.Analyze(context.Background(), Input{Code: code, Title: "Hello World Program"})
	require.NoError(t, err)
	require.Equal(t, 100, report.Score)
	require.NotEmpty(t, report.Suggestions)
}

func TestHeuristicHelloWorldCategoryMiss(t *testing.T) {
	analyzer := NewHeuristicAnalyzer()

	// 60 base + 10 main + 5 return - 15 missing greeting = 60.
	report, err := analyzer.Analyze(context.Background(), Input{
		Code:  "int main(){return 0;}",
		Title: "X - Hello World Program",
	})
	require.NoError(t, err)
	require.Equal(t, 60, report.Score)
	require.True(t, strings.HasSuffix(report.Feedback, "Good effort, keep refining your solution."))

	var found bool
	for _, suggestion := range report.Suggestions {
		if strings.Contains(suggestion, "Hello, World!") {
			found = true
		}
	}
	require.True(t, found, "expected a suggestion about the missing greeting")
}

func TestHeuristicHelloWorldCategoryMatch(t *testing.T) {
	analyzer := NewHeuristicAnalyzer()
	code := `#include <stdio.h>
int main() { printf("Hello, World!"); return 0; }`

	// 60 base + 10 main + 5 include + 5 return + 20 greeting = 100.
	report, err := analyzer.Analyze(context.Background(), Input{Code: code, Title: "Hello World Program"})
	require.NoError(t, err)
	require.Equal(t, 100, report.Score)
	require.True(t, strings.HasPrefix(report.Feedback, "Your program prints the expected greeting."))
}

func TestHeuristicMissingIncludePenalisedOnlyWithIO(t *testing.T) {
	analyzer := NewHeuristicAnalyzer()

	withIO, err := analyzer.Analyze(context.Background(), Input{
		Code:  `int main() { printf("hi"); return 0; }`,
		Title: "Pointer Basics",
	})
	require.NoError(t, err)

	withoutIO, err := analyzer.Analyze(context.Background(), Input{
		Code:  "int main() { return 0; }",
		Title: "Pointer Basics",
	})
	require.NoError(t, err)

	require.Equal(t, 65, withIO.Score)
	require.Equal(t, 75, withoutIO.Score)
}

func TestHeuristicCategoryPriorityFirstMatchOnly(t *testing.T) {
	analyzer := NewHeuristicAnalyzer()

	// Title matches both "sum" and "array"; only the sum rules may apply.
	report, err := analyzer.Analyze(context.Background(), Input{
		Code:  "#include <stdio.h>\nint main() { int n; scanf(\"%d\", &n); printf(\"%d\", n); return 0; }",
		Title: "Sum of Array Elements",
	})
	require.NoError(t, err)
	// 60 + 10 main + 5 include + 5 return + 15 sum = 95 (no array penalty).
	require.Equal(t, 95, report.Score)
}

func TestHeuristicFactorialRequiresLoop(t *testing.T) {
	analyzer := NewHeuristicAnalyzer()

	report, err := analyzer.Analyze(context.Background(), Input{
		Code:  "#include <stdio.h>\nint main() { printf(\"1\"); return 0; }",
		Title: "Factorial Calculator",
	})
	require.NoError(t, err)
	// 60 + 10 + 5 + 5 - 10 loop miss = 70.
	require.Equal(t, 70, report.Score)
}

func TestHeuristicIsDeterministic(t *testing.T) {
	analyzer := NewHeuristicAnalyzer()
	input := Input{
		Code:  "#include <stdio.h>\nint main() { int a[3]; printf(\"%d\", a[0]); return 0; }",
		Title: "Array Reversal",
	}

	first, err := analyzer.Analyze(context.Background(), input)
	require.NoError(t, err)
	second, err := analyzer.Analyze(context.Background(), input)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestHeuristicSuggestionsNeverEmpty(t *testing.T) {
	analyzer := NewHeuristicAnalyzer()
	inputs := []Input{
		{Code: "", Title: ""},
		{Code: "int main() { return 0; }", Title: "Untitled"},
		{Code: "#include <stdio.h>\n// ok\nint main() { printf(\"Hello, World!\"); return 0; }", Title: "Hello World"},
	}

	for _, input := range inputs {
		report, err := analyzer.Analyze(context.Background(), input)
		require.NoError(t, err)
		require.NotEmpty(t, report.Suggestions)
	}
}

func TestNewReturnsHeuristicWithoutAPIKey(t *testing.T) {
	analyzer, err := New(Config{})
	require.NoError(t, err)
	require.IsType(t, &HeuristicAnalyzer{}, analyzer)
}
