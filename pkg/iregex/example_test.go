package iregex_test

import (
	"fmt"

	"github.com/KromDaniel/iregex/pkg/iregex"
)

func ExampleRegexp_FindString() {
	re := iregex.MustCompilePattern(`(a+)b`)
	rm, subs, err := re.FindString("xaab")
	if err != nil {
		panic(err)
	}
	fmt.Println(rm)
	fmt.Println(subs[1])
	// Output:
	// (1, 3, 0)
	// [1, 3)
}

func ExampleRegexp_FindAllString() {
	re := iregex.MustCompilePattern(`[0-9]+`)
	word := []rune("a1b22")
	ms, err := re.FindAll(word, -1)
	if err != nil {
		panic(err)
	}
	for _, m := range ms {
		fmt.Println(string(word[m.Start():m.End()]))
	}
	// Output:
	// 1
	// 22
}

func ExampleRegexp_Submatch() {
	re := iregex.MustCompilePattern(`^(a)?(b)$`)
	word := []rune("b")
	rm, err := re.Rootmatch(word)
	if err != nil {
		panic(err)
	}
	subs, err := re.Submatch(word, rm)
	if err != nil {
		panic(err)
	}
	fmt.Println(subs[1], subs[2])
	// Output:
	// unmatched [0, 1)
}
