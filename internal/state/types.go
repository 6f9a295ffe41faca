package state

// Page is one unit of course content: an ordered run of steps identified
// by slug. Index is the page's position in the traversal order.
type Page struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
	Index int    `json:"index"`
	Steps []Step `json:"steps"`
}

// Step is a single exercise within a page. Name is unique within its
// page; Index is the step's position on the page.
type Step struct {
	Index    int       `json:"index"`
	Name     string    `json:"name"`
	Text     string    `json:"text"`
	Hints    []string  `json:"hints"`
	Solution *Solution `json:"solution"`
}

// Solution is a step's answer program with a per-token mask. Mask is
// aligned with Lines; MaskedIndices holds the still-hidden positions in
// reveal order.
type Solution struct {
	Lines         []string `json:"lines"`
	Mask          []bool   `json:"mask"`
	MaskedIndices []int    `json:"maskedIndices"`
}

// User is the learner record as loaded from the remote store.
type User struct {
	Email         string                  `json:"email"`
	DeveloperMode bool                    `json:"developerMode"`
	PageSlug      string                  `json:"pageSlug"`
	PagesProgress map[string]PageProgress `json:"pagesProgress"`
}

// PageProgress records the last step the learner reached on a page.
type PageProgress struct {
	StepName string `json:"step_name"`
}

// Prediction presentation states set by the engine. The lesson screen
// may layer further states on top once the learner interacts.
const (
	PredictionHidden  = "hidden"
	PredictionWaiting = "waiting"
	PredictionCorrect = "correct"
	PredictionWrong   = "wrong"
)

// Prediction is the post-run prediction game: after a passing run the
// learner guesses the program's output from a list of choices.
type Prediction struct {
	Choices      []string   `json:"choices"`
	Answer       string     `json:"answer"`
	WrongAnswers []string   `json:"wrongAnswers"`
	UserChoice   string     `json:"userChoice"`
	State        string     `json:"state"`
	CodeResult   *RunResult `json:"codeResult"`
}

// PagesPayload is the content-catalog load: every page plus the slug
// list that fixes traversal order.
type PagesPayload struct {
	Pages         map[string]Page `json:"pages"`
	PageSlugsList []string        `json:"pageSlugsList"`
}

// PredictionPayload is the prediction slice of an execution result.
type PredictionPayload struct {
	Choices []string `json:"choices"`
	Answer  string   `json:"answer"`
}

// RunResult is the outcome of one remote code execution.
type RunResult struct {
	Passed     bool                    `json:"passed"`
	Output     string                  `json:"output"`
	Messages   []string                `json:"messages"`
	Prediction PredictionPayload       `json:"prediction"`
	Progress   map[string]PageProgress `json:"progress"`
}

// State is the full session tree. It is versioned by replacement: a
// transition builds a new tree and swaps it in, it never edits this one.
type State struct {
	Pages              map[string]Page `json:"pages"`
	PageSlugsList      []string        `json:"pageSlugsList"`
	User               User            `json:"user"`
	Processing         bool            `json:"processing"`
	NumHints           int             `json:"numHints"`
	EditorContent      string          `json:"editorContent"`
	Messages           []string        `json:"messages"`
	PastMessages       []string        `json:"pastMessages"`
	RequestingSolution int             `json:"requestingSolution"`
	Prediction         Prediction      `json:"prediction"`
}
