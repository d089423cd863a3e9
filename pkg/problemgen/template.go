package problemgen

import (
	"context"
	"fmt"
)

// TemplateGenerator synthesises problems from a fixed per-difficulty
// template bank. Problem i of a difficulty uses bank[i mod len(bank)], so
// batches larger than a bank cycle through it deterministically.
type TemplateGenerator struct {
	easy   []problemTemplate
	medium []problemTemplate
	hard   []problemTemplate
}

type problemTemplate struct {
	Title        string
	Statement    string
	InputFormat  string
	OutputFormat string
	Constraints  string
	SampleInput  string
	SampleOutput string
	TestCases    []TestCaseDraft
}

// NewTemplateGenerator constructs the generator with the built-in banks.
func NewTemplateGenerator() *TemplateGenerator {
	return &TemplateGenerator{
		easy:   easyTemplates,
		medium: mediumTemplates,
		hard:   hardTemplates,
	}
}

// Generate produces dist.Total() drafts: the easy block first, then
// medium, then hard. Titles are prefixed with the topic and slugs are
// assigned sequentially across the whole batch.
func (g *TemplateGenerator) Generate(_ context.Context, topic string, dist Distribution) ([]Draft, error) {
	drafts := make([]Draft, 0, dist.Total())

	blocks := []struct {
		difficulty string
		count      int
		bank       []problemTemplate
	}{
		{DifficultyEasy, dist.Easy, g.easy},
		{DifficultyMedium, dist.Medium, g.medium},
		{DifficultyHard, dist.Hard, g.hard},
	}

	for _, block := range blocks {
		for i := 0; i < block.count; i++ {
			template := block.bank[i%len(block.bank)]
			timeLimit, memoryLimit := limitsFor(block.difficulty)
			drafts = append(drafts, Draft{
				Slug:          fmt.Sprintf("problem_%d", len(drafts)+1),
				Title:         fmt.Sprintf("%s - %s", topic, template.Title),
				Statement:     template.Statement,
				InputFormat:   template.InputFormat,
				OutputFormat:  template.OutputFormat,
				Constraints:   template.Constraints,
				SampleInput:   template.SampleInput,
				SampleOutput:  template.SampleOutput,
				Difficulty:    block.difficulty,
				TimeLimitSec:  timeLimit,
				MemoryLimitMB: memoryLimit,
				TestCases:     append([]TestCaseDraft(nil), template.TestCases...),
			})
		}
	}

	return drafts, nil
}

var easyTemplates = []problemTemplate{
	{
		Title:        "Hello World Program",
		Statement:    "Write a C program that prints the classic greeting to standard output.",
		InputFormat:  "No input.",
		OutputFormat: "A single line containing exactly: Hello, World!",
		Constraints:  "The output must match the expected text exactly, including punctuation.",
		SampleInput:  "",
		SampleOutput: "Hello, World!",
		TestCases: []TestCaseDraft{
			{Input: "", ExpectedOutput: "Hello, World!"},
			{Input: "", ExpectedOutput: "Hello, World!"},
		},
	},
	{
		Title:        "Sum of Two Numbers",
		Statement:    "Read two integers from standard input and print their sum.",
		InputFormat:  "A single line with two space-separated integers a and b.",
		OutputFormat: "A single line with the value of a + b.",
		Constraints:  "-1000000 <= a, b <= 1000000",
		SampleInput:  "3 5",
		SampleOutput: "8",
		TestCases: []TestCaseDraft{
			{Input: "3 5", ExpectedOutput: "8"},
			{Input: "-2 7", ExpectedOutput: "5"},
			{Input: "0 0", ExpectedOutput: "0"},
		},
	},
	{
		Title:        "Even or Odd",
		Statement:    "Read an integer and print \"even\" when it is divisible by two, otherwise \"odd\".",
		InputFormat:  "A single integer n.",
		OutputFormat: "The word even or odd on its own line.",
		Constraints:  "-1000000000 <= n <= 1000000000",
		SampleInput:  "4",
		SampleOutput: "even",
		TestCases: []TestCaseDraft{
			{Input: "4", ExpectedOutput: "even"},
			{Input: "7", ExpectedOutput: "odd"},
		},
	},
}

var mediumTemplates = []problemTemplate{
	{
		Title:        "Factorial Calculator",
		Statement:    "Read a non-negative integer n and print n! computed iteratively.",
		InputFormat:  "A single integer n.",
		OutputFormat: "A single line with the value of n factorial.",
		Constraints:  "0 <= n <= 20",
		SampleInput:  "5",
		SampleOutput: "120",
		TestCases: []TestCaseDraft{
			{Input: "5", ExpectedOutput: "120"},
			{Input: "0", ExpectedOutput: "1"},
			{Input: "10", ExpectedOutput: "3628800"},
		},
	},
	{
		Title:        "Array Reversal",
		Statement:    "Read n integers into an array and print them in reverse order.",
		InputFormat:  "The first line contains n. The second line contains n space-separated integers.",
		OutputFormat: "The n integers in reverse order, space-separated on one line.",
		Constraints:  "1 <= n <= 1000",
		SampleInput:  "4\n1 2 3 4",
		SampleOutput: "4 3 2 1",
		TestCases: []TestCaseDraft{
			{Input: "4\n1 2 3 4", ExpectedOutput: "4 3 2 1"},
			{Input: "1\n9", ExpectedOutput: "9"},
		},
	},
	{
		Title:        "Count Vowels",
		Statement:    "Read a line of text and print how many vowels it contains.",
		InputFormat:  "A single line of lowercase text.",
		OutputFormat: "A single integer: the number of vowels.",
		Constraints:  "The line contains at most 1000 characters.",
		SampleInput:  "programming",
		SampleOutput: "3",
		TestCases: []TestCaseDraft{
			{Input: "programming", ExpectedOutput: "3"},
			{Input: "xyz", ExpectedOutput: "0"},
		},
	},
}

var hardTemplates = []problemTemplate{
	{
		Title:        "Matrix Multiplication",
		Statement:    "Read two square matrices and print their product.",
		InputFormat:  "The first line contains n. The next n lines contain matrix A, the following n lines matrix B.",
		OutputFormat: "n lines of n space-separated integers: the product A x B.",
		Constraints:  "1 <= n <= 100, matrix entries fit in a 32-bit signed integer.",
		SampleInput:  "2\n1 2\n3 4\n5 6\n7 8",
		SampleOutput: "19 22\n43 50",
		TestCases: []TestCaseDraft{
			{Input: "2\n1 2\n3 4\n5 6\n7 8", ExpectedOutput: "19 22\n43 50"},
			{Input: "1\n3\n4", ExpectedOutput: "12"},
		},
	},
	{
		Title:        "Longest Common Prefix",
		Statement:    "Read n strings and print the longest prefix shared by all of them.",
		InputFormat:  "The first line contains n. The next n lines each contain one string.",
		OutputFormat: "The longest common prefix, or an empty line when there is none.",
		Constraints:  "1 <= n <= 100, each string has at most 200 characters.",
		SampleInput:  "3\nflower\nflow\nflight",
		SampleOutput: "fl",
		TestCases: []TestCaseDraft{
			{Input: "3\nflower\nflow\nflight", ExpectedOutput: "fl"},
			{Input: "2\ndog\ncat", ExpectedOutput: ""},
		},
	},
}
