package symtab

import "golang.org/x/exp/slices"

func sortStrings(names []string) {
	slices.Sort(names)
}
