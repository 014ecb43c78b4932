package evaluator

import "strings"

// CompareIDs returns the sample indices where train and test ids differ. Samples past
// the end of the shorter list count as different. A deterministic pooler fed the same
// inputs in the same order returns nil.
func CompareIDs(train, test []int) (diff []int) {
	n := len(train)
	if len(test) > n {
		n = len(test)
	}
	for i := 0; i < n; i++ {
		if i >= len(train) || i >= len(test) || train[i] != test[i] {
			diff = append(diff, i)
		}
	}
	return
}

// MatchByID labels each test id with the training labels that produced the same id,
// comma separated in first-seen order. Ids never seen in training get "".
func MatchByID(trainIDs []int, trainLabels []string, testIDs []int) []string {
	var byID = make(map[int][]string)
	for i, id := range trainIDs {
		if i >= len(trainLabels) {
			break
		}
		if !contains(byID[id], trainLabels[i]) {
			byID[id] = append(byID[id], trainLabels[i])
		}
	}
	var out = make([]string, len(testIDs))
	for i, id := range testIDs {
		out[i] = strings.Join(byID[id], ",")
	}
	return out
}

func contains(list []string, s string) bool {
	for _, l := range list {
		if l == s {
			return true
		}
	}
	return false
}
