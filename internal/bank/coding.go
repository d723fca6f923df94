package bank

import "github.com/pavelanni/examportal/internal/model"

type problem struct {
	title, desc string
}

var codingBank = map[string][]problem{
	"Python": {
		{"Easy: Sum of list", "Write a function solve() that reads a line of integers separated by spaces and prints their sum."},
		{"Easy-Mid: Count vowels", "Write solve() that reads a line, counts vowels (a,e,i,o,u) and prints the count."},
		{"Medium: Unique words", "Write solve() that reads a sentence and prints the number of unique words (case-insensitive)."},
		{"Hard: Longest increasing subsequence length", "Write solve() that reads integers and prints the length of the LIS."},
		{"Harder: Evaluate expression", "Write solve() that evaluates a single-line arithmetic expression without eval() and prints the result."},
	},
	"C": {
		{"Easy: Hello World variant", "Write a C program that prints 'Hello from C' followed by a simple pattern."},
		{"Easy-Mid: Pointers practice", "Write a C function that swaps two integers using pointers."},
		{"Medium: String reverse", "Write a C program to reverse a string in place."},
		{"Hard: Dynamic memory", "Write code to allocate and resize an integer array using malloc/realloc."},
		{"Harder: Implement linked list", "Write code to implement a singly linked list with insert and delete."},
	},
	"Java": {
		{"Easy: Hello Java", "Write a Java program that prints 'Hello Java' from its main method."},
		{"Easy-Mid: Class & Object", "Implement a simple class with attributes and a method."},
		{"Medium: Array operations", "Write Java code to find the second largest element in an array."},
		{"Hard: Threads demo", "Create a multi-threaded Java example using Runnable."},
		{"Harder: Data structures", "Implement a stack using a linked list in Java."},
	},
	"DBMS": {
		{"Easy: SQL SELECT", "Write SQL to select the top N records from a table."},
		{"Easy-Mid: JOIN query", "Write SQL to join two tables on a key."},
		{"Medium: Normalization", "Show the steps to normalize a table to 3NF (text answer)."},
		{"Hard: Transaction", "Design transactions that avoid a lost update (explain)."},
		{"Harder: Query optimization", "Explain indexes and how to optimize a query."},
	},
	"CN": {
		{"Easy: Describe IP", "Explain the IPv4 address structure (text)."},
		{"Easy-Mid: Subnetting", "Given CIDR /24, how many usable hosts are there? (text)"},
		{"Medium: Routing", "Explain how OSPF works at a high level."},
		{"Hard: Congestion control", "Explain TCP congestion control algorithms."},
		{"Harder: Protocol design", "Design a simple reliable message protocol (text)."},
	},
	"OS": {
		{"Easy: Process vs Thread", "Explain the difference between a process and a thread."},
		{"Easy-Mid: Scheduling", "Given a set of processes, compute turnaround times under Round Robin."},
		{"Medium: Critical section", "Write pseudocode that solves mutual exclusion with semaphores."},
		{"Hard: Virtual memory", "Explain demand paging and page replacement algorithms."},
		{"Harder: Kernel modules", "Describe how kernel modules are loaded and unloaded (text)."},
	},
	"Aptitude": {
		{"Easy: Simple Interest", "Compute simple interest for a given principal, rate and time."},
		{"Easy-Mid: Percentage", "Find the percentage increase between two values."},
		{"Medium: Series", "Find the next number in a numeric series."},
		{"Hard: Time & Work", "Solve a combined work-rate problem."},
		{"Harder: Combinatorics", "Solve a counting or permutation problem."},
	},
}

// languageFor is the language answers for subject are written in. Only
// Python answers can be executed by the runner.
func languageFor(subject string) string {
	switch subject {
	case "Python", "C", "Java":
		return subject
	case "DBMS":
		return "SQL"
	}
	return "Text"
}

func codingProblems(subject string) []model.CodingProblem {
	src := codingBank[subject]
	out := make([]model.CodingProblem, len(src))
	for i, p := range src {
		out[i] = model.CodingProblem{
			ID:          i + 1,
			Subject:     subject,
			Title:       p.title,
			Description: p.desc,
			Language:    languageFor(subject),
		}
	}
	return out
}
