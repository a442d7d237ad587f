package datasets

import (
	"math/rand/v2"
	"strings"
)

// Topic vocabularies for the synthetic newsgroup corpus. Document text is a
// mixture of words from the document's category and the shared filler
// vocabulary, so categories are separable but not trivially so.
var newsgroupTopics = []struct {
	name  string
	vocab []string
}{
	{
		name: "sci.space",
		vocab: []string{
			"orbit", "shuttle", "launch", "nasa", "satellite", "rocket",
			"moon", "mars", "telescope", "mission", "astronaut", "payload",
			"gravity", "solar", "spacecraft", "probe", "lunar", "module",
		},
	},
	{
		name: "rec.sport.baseball",
		vocab: []string{
			"pitcher", "inning", "bat", "league", "season", "hitter",
			"baseball", "team", "game", "score", "runs", "catcher",
			"stadium", "playoffs", "coach", "strike", "homer", "roster",
		},
	},
	{
		name: "comp.graphics",
		vocab: []string{
			"image", "render", "pixel", "polygon", "format", "graphics",
			"shader", "texture", "animation", "buffer", "color", "vertex",
			"raster", "scene", "algorithm", "jpeg", "viewer", "driver",
		},
	},
	{
		name: "talk.politics.misc",
		vocab: []string{
			"government", "policy", "senate", "election", "vote", "congress",
			"taxes", "debate", "president", "campaign", "law", "rights",
			"bill", "party", "reform", "budget", "state", "media",
		},
	},
}

var fillerWords = []string{
	"the", "a", "and", "of", "to", "in", "that", "is", "was", "for",
	"it", "with", "as", "on", "be", "at", "by", "this", "have", "from",
	"or", "one", "had", "but", "not", "what", "all", "were", "when", "we",
	"there", "can", "an", "which", "their", "said", "if", "will", "about",
	"think", "know", "just", "people", "time", "good", "really", "also",
}

// NewsgroupsOption configures LoadNewsgroups.
type NewsgroupsOption func(*newsgroupsConfig)

type newsgroupsConfig struct {
	docsPerCategory int
	seed            uint64
}

// WithNewsgroupsDocsPerCategory sets the number of documents per category.
func WithNewsgroupsDocsPerCategory(n int) NewsgroupsOption {
	return func(c *newsgroupsConfig) {
		if n > 0 {
			c.docsPerCategory = n
		}
	}
}

// WithNewsgroupsSeed sets the generator seed.
func WithNewsgroupsSeed(seed uint64) NewsgroupsOption {
	return func(c *newsgroupsConfig) {
		c.seed = seed
	}
}

// LoadNewsgroups generates the synthetic newsgroup text corpus: four
// categories, each document a bag of topic and filler words. Defaults produce
// 1000 documents.
func LoadNewsgroups(opts ...NewsgroupsOption) *TextDataset {
	cfg := &newsgroupsConfig{
		docsPerCategory: 250,
		seed:            42,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	rng := rand.New(rand.NewPCG(cfg.seed, cfg.seed))

	nCategories := len(newsgroupTopics)
	nDocs := nCategories * cfg.docsPerCategory
	docs := make([]string, 0, nDocs)
	target := make([]int, 0, nDocs)

	for label, topic := range newsgroupTopics {
		for d := 0; d < cfg.docsPerCategory; d++ {
			length := 30 + rng.IntN(51) // 30-80 words
			words := make([]string, 0, length)
			for w := 0; w < length; w++ {
				// Roughly 40% topical words, the rest filler.
				if rng.Float64() < 0.4 {
					words = append(words, topic.vocab[rng.IntN(len(topic.vocab))])
				} else {
					words = append(words, fillerWords[rng.IntN(len(fillerWords))])
				}
			}
			docs = append(docs, strings.Join(words, " "))
			target = append(target, label)
		}
	}

	// Shuffle documents so category blocks do not align with CV folds.
	perm := rng.Perm(nDocs)
	shuffledDocs := make([]string, nDocs)
	shuffledTarget := make([]int, nDocs)
	for i, j := range perm {
		shuffledDocs[i] = docs[j]
		shuffledTarget[i] = target[j]
	}

	targetNames := make([]string, nCategories)
	for i, topic := range newsgroupTopics {
		targetNames[i] = topic.name
	}

	return &TextDataset{
		Docs:        shuffledDocs,
		Target:      shuffledTarget,
		TargetNames: targetNames,
	}
}
