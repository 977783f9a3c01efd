package dedup

// stopWords are function words, pronouns, and other glue excluded from the
// keyword sets. Tokens of three characters or fewer are dropped before this
// table is consulted, so only longer words need to appear here.
var stopWords = map[string]struct{}{}

func init() {
	words := []string{
		"about", "above", "after", "again", "against", "along", "already",
		"also", "always", "another", "anything", "around", "because", "been",
		"before", "being", "below", "between", "both", "cannot", "could",
		"does", "doing", "down", "during", "each", "either", "else", "even",
		"ever", "every", "everything", "from", "further", "have", "having",
		"here", "hers", "herself", "himself", "into", "itself", "just",
		"like", "maybe", "more", "most", "much", "myself", "never", "nothing",
		"once", "only", "other", "ought", "ourselves", "over", "own", "same",
		"should", "since", "some", "something", "somewhere", "still", "such",
		"than", "that", "their", "theirs", "them", "themselves", "then",
		"there", "these", "they", "this", "those", "through", "under",
		"until", "very", "well", "were", "what", "when", "where", "which",
		"while", "will", "with", "within", "without", "would", "your",
		"yours", "yourself",
		// Common contractions survive punctuation stripping as joined forms
		// in some inputs, so keep them listed.
		"youre", "youve", "youll", "theyre", "theyve", "thats", "theres",
		"dont", "doesnt", "didnt", "wont", "cant", "couldnt", "shouldnt",
		"wouldnt", "isnt", "arent", "wasnt", "werent", "havent", "hasnt",
	}
	for _, w := range words {
		stopWords[w] = struct{}{}
	}
}
