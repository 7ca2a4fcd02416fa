package index

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/hashicorp/golang-lru/simplelru"

	"github.com/gridsmith/gridsmith/internal/grid"
)

// partialCacheSize bounds each per-length solvability memo.
const partialCacheSize = 10000

// Entry is one indexed word with its two scores: the normalized
// frequency score in [1, 100] and the raw letter score by which the
// store's entries are sorted.
type Entry struct {
	Word        grid.Word
	FreqScore   int
	LetterScore int
}

// LoadState describes the lifecycle of the index contents.
type LoadState int32

const (
	// NeverLoaded means no load has been requested yet.
	NeverLoaded LoadState = iota
	// Loading means a deferred load is in progress.
	Loading
	// Loaded means the index is complete and normalized.
	Loaded
)

// lengthStore holds every indexed word of one length.
type lengthStore struct {
	length       int
	entries      []Entry
	wordSet      map[grid.Word]int
	trie         *trieNode
	partialCache *simplelru.LRU
}

func newLengthStore(length int) *lengthStore {
	cache, err := simplelru.NewLRU(partialCacheSize, nil)
	if err != nil {
		panic(err) // only fails for size <= 0
	}
	return &lengthStore{
		length:       length,
		wordSet:      make(map[grid.Word]int),
		trie:         newTrie(),
		partialCache: cache,
	}
}

func (s *lengthStore) addEntry(w grid.Word, freqScore, letterScore int) {
	s.entries = append(s.entries, Entry{Word: w, FreqScore: freqScore, LetterScore: letterScore})
	s.wordSet[w] = freqScore
	s.trie.insert(w)
}

func (s *lengthStore) contains(w grid.Word) bool {
	_, ok := s.wordSet[w]
	return ok
}

// hasSolution scans entries in descending letter-score order and
// reports whether any word at or above scoreMin fits the partial.
//
// The memo key is the partial word only; scoreMin is NOT part of the
// key. Callers that vary scoreMin must flush between variations (the
// search loop does). A fix would widen the key, but the flush
// discipline is load-bearing and deliberate.
func (s *lengthStore) hasSolution(partial grid.Word, scoreMin int) bool {
	if cached, ok := s.partialCache.Get(partial); ok {
		return cached.(bool)
	}
	for i := range s.entries {
		if s.entries[i].FreqScore >= scoreMin && partial.Matches(s.entries[i].Word) {
			s.partialCache.Add(partial, true)
			return true
		}
	}
	s.partialCache.Add(partial, false)
	return false
}

// finalize normalizes frequency scores, re-sorts entries by
// descending letter score, and clears the memo.
func (s *lengthStore) finalize() {
	normalizeFreqScores(s.entries)
	for i := range s.entries {
		s.wordSet[s.entries[i].Word] = s.entries[i].FreqScore
	}
	sort.SliceStable(s.entries, func(i, j int) bool {
		return s.entries[i].LetterScore > s.entries[j].LetterScore
	})
	s.partialCache.Purge()
}

// Index is the length-partitioned word index. One store exists per
// word length below grid.MaxDim; longer words are not indexable.
//
// Writes are guarded by mu, which a deferred load holds for the whole
// load. Reads that need a complete index call WaitForLoad first.
type Index struct {
	mu     sync.Mutex
	state  atomic.Int32
	stores [grid.MaxDim]*lengthStore
}

// New returns an empty index.
func New() *Index {
	idx := &Index{}
	for i := range idx.stores {
		idx.stores[i] = newLengthStore(i)
	}
	return idx
}

// State returns the load lifecycle state.
func (idx *Index) State() LoadState {
	return LoadState(idx.state.Load())
}

// IsLoaded reports whether the index is complete and normalized.
func (idx *Index) IsLoaded() bool {
	return idx.State() == Loaded
}

// WaitForLoad blocks until any in-flight load releases the writer
// lock. Returns immediately if no load is running.
func (idx *Index) WaitForLoad() {
	idx.mu.Lock()
	//lint:ignore SA2001 acquiring the writer lock is the wait
	idx.mu.Unlock()
}

// AddEntry inserts a single word with a raw frequency score, deriving
// its letter score. Words at or beyond grid.MaxDim are dropped.
// Entries added this way carry raw scores until Finalize runs.
func (idx *Index) AddEntry(w grid.Word, freqScore int) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.addEntryLocked(w, freqScore)
}

func (idx *Index) addEntryLocked(w grid.Word, freqScore int) {
	if w.Len() >= grid.MaxDim || w.Len() == 0 || !w.IsComplete() {
		return
	}
	idx.stores[w.Len()].addEntry(w, freqScore, LetterScore(w))
}

// Finalize normalizes every store and marks the index loaded. Called
// automatically at the end of the loaders; exposed for callers that
// build an index through AddEntry.
func (idx *Index) Finalize() {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.finalizeLocked()
}

func (idx *Index) finalizeLocked() {
	for _, s := range idx.stores {
		s.finalize()
	}
	idx.state.Store(int32(Loaded))
}

// failLoad records a failed load: a previously complete index stays
// Loaded, anything else falls back to NeverLoaded.
func (idx *Index) failLoad() {
	if idx.state.Load() != int32(Loaded) {
		idx.state.Store(int32(NeverLoaded))
	}
}

// Contains reports whether the complete word is in the index.
func (idx *Index) Contains(w grid.Word) bool {
	if w.Len() >= grid.MaxDim {
		return false
	}
	return idx.stores[w.Len()].contains(w)
}

// FreqScore returns the frequency score of an indexed word.
func (idx *Index) FreqScore(w grid.Word) (int, bool) {
	if w.Len() >= grid.MaxDim {
		return 0, false
	}
	score, ok := idx.stores[w.Len()].wordSet[w]
	return score, ok
}

// Solutions returns every complete word matching the partial, in trie
// traversal order. The order is deterministic for a given load but
// carries no ranking; callers that need ranked candidates sort by the
// score they care about.
func (idx *Index) Solutions(partial grid.Word) []grid.Word {
	if partial.Len() == 0 || partial.Len() >= grid.MaxDim {
		return nil
	}
	return idx.stores[partial.Len()].trie.find(partial, 0)
}

// HasSolution reports whether any indexed word with frequency score
// at or above scoreMin fits the partial. Results are memoized per
// store; see FlushCaches.
func (idx *Index) HasSolution(partial grid.Word, scoreMin int) bool {
	if partial.Len() == 0 || partial.Len() >= grid.MaxDim {
		return false
	}
	return idx.stores[partial.Len()].hasSolution(partial, scoreMin)
}

// Entries returns the score-sorted entry slice for one word length.
// The slice is shared; callers must not mutate it.
func (idx *Index) Entries(length int) []Entry {
	if length < 0 || length >= grid.MaxDim {
		return nil
	}
	return idx.stores[length].entries
}

// FlushCaches clears every per-length solvability memo. The search
// loop calls this at the top of each relaxation iteration because the
// memo key ignores the score minimum.
func (idx *Index) FlushCaches() {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	for _, s := range idx.stores {
		s.partialCache.Purge()
	}
}
