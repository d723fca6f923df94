package bank

import "github.com/pavelanni/examportal/internal/model"

type curated struct {
	prompt  string
	options [4]string
	answer  int
}

// Aptitude and reasoning set, answers 1-based.
var aptitude = []curated{
	{"Next in series: 2, 6, 12, 20, 30, ?", [4]string{"36", "40", "42", "56"}, 3},
	{"If 5x - 3 = 2x + 12, x = ?", [4]string{"3", "5", "7", "15"}, 2},
	{"Find the odd one out: 3, 5, 8, 13, 21", [4]string{"3", "5", "8", "21"}, 3},
	{"A train 160 m long crosses a platform in 28 sec at 36 km/h. Platform length = ?", [4]string{"80 m", "120 m", "200 m", "160 m"}, 2},
	{"A is twice as good a workman as B and together they finish a job in 10 days. How many days does A alone take?", [4]string{"15", "20", "24", "30"}, 1},
	{"15% of 200 is ?", [4]string{"15", "20", "30", "40"}, 3},
	{"8 men can do a job in 6 days and 12 women can do the same job in 6 days. Ratio of a man's work to a woman's work is ?", [4]string{"2:3", "3:2", "4:3", "3:4"}, 2},
	{"Book is to Reading as Fork is to ?", [4]string{"Drawing", "Writing", "Eating", "Stirring"}, 3},
	{"If each side of a square is increased by 10%, its area increases by ?", [4]string{"10%", "21%", "19%", "20%"}, 2},
	{"Sales in Q1=120, Q2=150, Q3=180, Q4=210. Total = ?", [4]string{"650", "660", "680", "700"}, 2},
	{"Next in series: 5, 11, 23, 47, ?", [4]string{"95", "96", "97", "99"}, 1},
	{"A clock gains 5 minutes in 24 hours. How much does it gain in 6 hours?", [4]string{"1.25 min", "1.5 min", "2 min", "0.5 min"}, 1},
	{"Bought at 1200, sold at 1500. Profit % = ?", [4]string{"20%", "25%", "15%", "30%"}, 2},
	{"If log10(1000) = x, x = ?", [4]string{"2", "3", "10", "100"}, 2},
	{"You face North and turn 135° clockwise. Which way do you face?", [4]string{"SE", "SW", "NW", "NE"}, 1},
	{"Five friends A-E sit in a row; A sits left of B, C sits right of D. Which can't be determined?", [4]string{"A's position", "B's position", "E's position", "None of these"}, 3},
	{"If x:y = 3:4 and y:z = 8:5, find x:z", [4]string{"3:5", "6:5", "9:5", "24:25"}, 2},
	{"Of 70 people, 40 like A, 50 like B and 20 like both. How many like neither?", [4]string{"0", "10", "20", "30"}, 1},
	{"Simple interest on Rs.1000 at 5% per annum for 3 years = ?", [4]string{"150", "115", "105", "1500"}, 1},
	{"Statement: 'All apples are fruits'. Which follows?", [4]string{"All fruits are apples", "Some fruits are apples", "No fruit is an apple", "None"}, 2},
	{"1010 (base 2) in decimal = ?", [4]string{"8", "10", "12", "16"}, 2},
	{"How many faces does a cuboid have?", [4]string{"4", "6", "8", "12"}, 2},
	{"Number of ways to arrange the letters of 'ABC' = ?", [4]string{"3", "6", "9", "12"}, 2},
	{"Speeds are in the ratio 3:4. Times t1:t2 to cover the same distance = ?", [4]string{"4:3", "3:4", "16:9", "9:16"}, 1},
	{"If the day after tomorrow is two days before Saturday, today is ?", [4]string{"Sunday", "Monday", "Tuesday", "Wednesday"}, 3},
}

func builtinAptitude() []model.Question {
	out := make([]model.Question, len(aptitude))
	for i, c := range aptitude {
		out[i] = model.Question{
			ID:            i + 1,
			Subject:       "Aptitude",
			Prompt:        c.prompt,
			Options:       c.options[:],
			CorrectOption: c.answer,
			Difficulty:    model.DifficultyMedium,
		}
	}
	return out
}
