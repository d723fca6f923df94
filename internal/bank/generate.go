package bank

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/pavelanni/examportal/internal/model"
)

// template produces one question: the prompt, the correct option text and a
// pool of wrong options to pick distractors from.
type template func(r *rand.Rand) (prompt, answer string, wrong []string)

// fixed is a template that does not depend on random values.
func fixed(prompt, answer string, wrong ...string) template {
	return func(*rand.Rand) (string, string, []string) {
		return prompt, answer, wrong
	}
}

func between(r *rand.Rand, lo, hi int) int {
	return lo + r.IntN(hi-lo+1)
}

func pick[T any](r *rand.Rand, xs ...T) T {
	return xs[r.IntN(len(xs))]
}

func itoa(ns ...int) []string {
	out := make([]string, len(ns))
	for i, n := range ns {
		out[i] = strconv.Itoa(n)
	}
	return out
}

var templates = map[string][]template{
	"Aptitude": {
		// Second differences are constant: a, a+k, a+3k, a+6k, ...
		func(r *rand.Rand) (string, string, []string) {
			a, k := between(r, 2, 5), between(r, 2, 4)
			terms := []int{a}
			for i := 1; i <= 4; i++ {
				terms = append(terms, terms[i-1]+k*i)
			}
			next := terms[4] + 5*k
			return fmt.Sprintf("Next in series: %d, %d, %d, %d, %d, ?", terms[0], terms[1], terms[2], terms[3], terms[4]),
				strconv.Itoa(next), itoa(next+k, next-k, next+2*k, terms[4]+4*k+1)
		},
		func(r *rand.Rand) (string, string, []string) {
			x := between(r, 2, 12)
			k := 3*x - 3
			return fmt.Sprintf("If 5x - 3 = 2x + %d, x = ?", k),
				strconv.Itoa(x), itoa(x+1, x-1, x+3, x+2)
		},
		func(r *rand.Rand) (string, string, []string) {
			speed := pick(r, 10, 15, 20)
			length := 20 * between(r, 5, 10)
			platform := 20 * between(r, 4, 12)
			for (length+platform)%speed != 0 {
				platform += 20
			}
			t := (length + platform) / speed
			return fmt.Sprintf("A train %d m long crosses a platform in %d sec at %d km/h. Platform length = ?", length, t, speed*18/5),
				fmt.Sprintf("%d m", platform),
				[]string{fmt.Sprintf("%d m", platform+20), fmt.Sprintf("%d m", platform+40), fmt.Sprintf("%d m", length+platform), fmt.Sprintf("%d m", platform-20)}
		},
		func(r *rand.Rand) (string, string, []string) {
			p := pick(r, 10, 20, 30, 40, 50)
			inc := 2*p + p*p/100
			return fmt.Sprintf("If each side of a square is increased by %d%%, its area increases by ?", p),
				fmt.Sprintf("%d%%", inc), []string{fmt.Sprintf("%d%%", 2*p), fmt.Sprintf("%d%%", p), fmt.Sprintf("%d%%", inc-1), fmt.Sprintf("%d%%", p*p/100)}
		},
		func(r *rand.Rand) (string, string, []string) {
			cost := 100 * pick(r, 4, 5, 8, 10, 12, 15, 20)
			pct := pick(r, 10, 15, 20, 25, 30, 40, 50)
			sell := cost * (100 + pct) / 100
			wrong := []string{}
			for _, w := range []int{10, 15, 20, 25, 30, 40, 50} {
				wrong = append(wrong, fmt.Sprintf("%d%%", w))
			}
			return fmt.Sprintf("Bought at %d, sold at %d. Profit %% = ?", cost, sell), fmt.Sprintf("%d%%", pct), wrong
		},
	},
	"C": {
		fixed("Which header file declares malloc?", "stdlib.h", "stdio.h", "string.h", "math.h"),
		fixed("What does 'static' do to a function defined at file scope in C?", "Limits its linkage to that file",
			"Makes it inline", "Exports it to other files", "Allocates it on the heap"),
		func(r *rand.Rand) (string, string, []string) {
			a := between(r, 2, 9)
			return fmt.Sprintf(`Given int x = %d; printf("%%d", x++); what prints?`, a), strconv.Itoa(a), itoa(a+1, a-1, a+2)
		},
		fixed("What is sizeof(char) in C?", "1", "2", "4", "8"),
		fixed("Adding 1 to an int* advances it by how many bytes?", "sizeof(int)", "1", "sizeof(int*)", "2"),
	},
	"Java": {
		fixed("Which keyword is used to inherit a class in Java?", "extends", "implements", "inherits", "super"),
		fixed("Which interface is implemented to define a task for a thread?", "Runnable", "Serializable", "Comparable", "Cloneable"),
		fixed("What is the output of: System.out.println(5/2);", "2", "2.5", "3", "2.0"),
		fixed("Which collection is synchronized by default?", "Vector", "ArrayList", "HashMap", "LinkedList"),
		fixed("What is the default value of a boolean field in Java?", "false", "true", "null", "0"),
	},
	"Python": {
		func(r *rand.Rand) (string, string, []string) {
			n := between(r, 3, 6)
			list := func(xs func(int) int, from, to int) string {
				parts := []string{}
				for i := from; i < to; i++ {
					parts = append(parts, strconv.Itoa(xs(i)))
				}
				return "[" + strings.Join(parts, ", ") + "]"
			}
			sq := func(i int) int { return i * i }
			id := func(i int) int { return i }
			return fmt.Sprintf("What does [x*x for x in range(%d)] produce?", n),
				list(sq, 0, n), []string{list(sq, 1, n+1), list(id, 0, n), list(sq, 0, n+1)}
		},
		fixed("What is the output of: print(3//2)?", "1", "1.5", "2", "0"),
		fixed("Which keyword turns a function into a generator?", "yield", "return", "lambda", "async"),
		fixed("Which of these types is immutable?", "tuple", "list", "dict", "set"),
		fixed("What does None represent in Python?", "The absence of a value", "Zero", "An empty string", "False"),
	},
	"DBMS": {
		fixed("What is the main aim of normalization?", "Reduce redundancy", "Speed up every query", "Encrypt data", "Add indexes"),
		fixed("Which normal form removes partial dependencies?", "2NF", "1NF", "3NF", "BCNF"),
		fixed("A primary key value must be unique within its table.", "True", "False", "Only when indexed", "Only for composite keys"),
		fixed("Which SQL clause filters result rows?", "WHERE", "ORDER BY", "GROUP BY", "SELECT"),
		fixed("Which operation combines two relations on matching attributes?", "Join", "Projection", "Selection", "Union"),
	},
	"CN": {
		fixed("Which OSI layer handles routing?", "Network", "Transport", "Data link", "Session"),
		fixed("Which protocol provides a reliable byte stream?", "TCP", "UDP", "IP", "ICMP"),
		fixed("Which device operates at the data link layer?", "Switch", "Router", "Hub", "Repeater"),
		fixed("How long is an IPv4 address?", "32 bits", "64 bits", "128 bits", "16 bits"),
		fixed("What does DNS resolve?", "Domain names to IP addresses", "IP addresses to MAC addresses", "Ports to services", "URLs to file paths"),
	},
	"OS": {
		fixed("Which scheduling algorithm is preemptive?", "Round Robin", "FCFS", "Both", "Neither"),
		fixed("Which statement about processes and threads is true?", "Threads of a process share its address space",
			"Each thread has its own address space", "A process cannot contain threads", "Threads cannot run concurrently"),
		fixed("Which is a necessary condition for deadlock?", "Mutual exclusion", "Preemption", "Paging", "Caching"),
		fixed("Which structure maps virtual pages to physical frames?", "Page table", "Stack", "Semaphore", "Inode"),
		fixed("What is a semaphore used for?", "Synchronization", "Memory allocation", "Disk scheduling", "Address translation"),
	},
}

// difficulties returns count labels: half Easy, a third Medium and the rest
// Hard, shuffled.
func difficulties(count int, r *rand.Rand) []model.Difficulty {
	out := make([]model.Difficulty, 0, count)
	for range count / 2 {
		out = append(out, model.DifficultyEasy)
	}
	for range count / 3 {
		out = append(out, model.DifficultyMedium)
	}
	for len(out) < count {
		out = append(out, model.DifficultyHard)
	}
	r.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// Generate builds count template questions for a built-in subject. Options
// are four distinct strings with the correct one at a random position.
func Generate(subject string, count int, r *rand.Rand) ([]model.Question, error) {
	tpls, ok := templates[subject]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSubject, subject)
	}
	diffs := difficulties(count, r)
	out := make([]model.Question, 0, count)
	for i := range count {
		prompt, answer, wrong := tpls[r.IntN(len(tpls))](r)
		opts := distractors(r, answer, wrong)
		correct := r.IntN(model.NumOptions)
		opts = append(opts[:correct], append([]string{answer}, opts[correct:]...)...)
		out = append(out, model.Question{
			ID:            i + 1,
			Subject:       subject,
			Prompt:        prompt,
			Options:       opts,
			CorrectOption: correct + 1,
			Difficulty:    diffs[i],
		})
	}
	return out, nil
}

// distractors picks three distinct wrong options, padding with "None of
// these" variants if the pool is too small.
func distractors(r *rand.Rand, answer string, pool []string) []string {
	seen := map[string]bool{answer: true}
	uniq := []string{}
	for _, w := range pool {
		if !seen[w] {
			seen[w] = true
			uniq = append(uniq, w)
		}
	}
	r.Shuffle(len(uniq), func(i, j int) { uniq[i], uniq[j] = uniq[j], uniq[i] })
	if len(uniq) > model.NumOptions-1 {
		uniq = uniq[:model.NumOptions-1]
	}
	for i := 1; len(uniq) < model.NumOptions-1; i++ {
		filler := "None of these"
		if i > 1 {
			filler = fmt.Sprintf("None of these (%d)", i)
		}
		if !seen[filler] {
			seen[filler] = true
			uniq = append(uniq, filler)
		}
	}
	return uniq
}
