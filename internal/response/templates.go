package response

// MotivationTone buckets the inferred motivation for template selection.
type MotivationTone string

const (
	ToneFear     MotivationTone = "fear"
	ToneLaziness MotivationTone = "laziness"
	ToneUrgency  MotivationTone = "urgency"
	ToneGenuine  MotivationTone = "genuine"
	ToneNeutral  MotivationTone = "neutral"
)

// Opening lines for beginners, keyed by motivation tone. Tones without
// an entry fall back to the genuine line.
var beginnerOpenings = map[MotivationTone]string{
	ToneFear:     "I can see you're worried about this, and that's completely natural. Let's break this down into tiny, manageable pieces so you can build real confidence.",
	ToneLaziness: "I get it - doing it yourself, even slowly, will actually make you feel way better than taking a shortcut.",
	ToneUrgency:  "Deadlines are stressful, I know. But here's the thing: a focused plan you actually execute beats a rushed shortcut every time.",
	ToneGenuine:  "Great question! You're asking the right things. Let me help you build a real foundation here.",
}

// Opening lines for intermediate users.
var intermediateOpenings = map[MotivationTone]string{
	ToneFear:     "You've got more capability here than you think. Let me show you how to find the solution yourself.",
	ToneLaziness: "You're better than shortcuts. Let's find an efficient way that still builds your skills.",
	ToneUrgency:  "Time pressure is real, but you have enough skill to move fast without skipping the learning. Let's be efficient about this.",
	ToneGenuine:  "Excellent thinking. You're ready to develop mastery. Let me challenge you appropriately.",
}

// Advanced openings are keyed by the surface request instead of
// motivation: verification, optimization, or depth by default.
const (
	advancedVerifyOpening = "Your analysis looks thoughtful. Let's stress-test it."
	advancedOptimOpening  = "You understand the basics well. Now let's pursue elegance."
	advancedDepthOpening  = "You're at a level where the real growth comes from wrestling with complexity."
)

const beginnerBody = `

**Let's see your actual situation:**
%s

**What we need to work on together:**
%s

**Here's our game plan:**

1. **Concept Building** - I'll explain the key ideas simply
2. **Example Walk-Through** - We'll work through a real example together
3. **Your Turn** - You'll try something similar with me coaching
4. **Reflection** - We'll review what you learned

This way, you won't just solve this problem - you'll be able to handle similar ones on your own.

**Ready?** What's the part that confuses you most?`

const intermediateBody = `

**I notice:** %s

**Let's think strategically:**

1. **Core Question** - What's the real challenge here? (Not just the surface)
2. **Your Approach** - What have you tried? What approaches could work?
3. **Testing** - How would you verify if your solution is right?
4. **Refinement** - What would make it better/more elegant?

**Your task:**
- Work through these questions
- Share your reasoning with me
- We'll iterate until you've got it solid

**Why this way?** You have the skills. You just need to organize your thinking at a deeper level. That's how you move from competent to confident.

What insights do you have so far?`

const advancedBody = `

**Beyond the obvious:**

1. **Assumptions** - What are you assuming? Why? What if they're wrong?
2. **Edge Cases** - What breaks your solution? How would you handle those?
3. **Trade-offs** - What's the cost of your approach? Any alternatives?
4. **Deeper Why** - Why does this matter? What's the principle here?
5. **Mastery** - What would an expert do? How would they think about this?

**Challenge yourself with:**
- Can you find three different valid approaches?
- Which is most elegant and why?
- How would you explain this to someone very smart but in a different field?
- What have you learned that applies beyond this specific problem?

This is where real mastery comes from - not from having answers, but from understanding the space deeply enough to generate excellent solutions.

What's your thinking so far?`

// Fixed per-level follow-up suggestions.
var (
	beginnerFollowUps = []string{
		"Show me your attempt after my explanation",
		"Ask about any confusing parts",
		"Try a similar problem to test yourself",
	}
	intermediateFollowUps = []string{
		"Share your approach and reasoning",
		"Ask for feedback on your thinking",
		"Explore alternative solutions",
		"Build toward mastery",
	}
	advancedFollowUps = []string{
		"Explore multiple solution paths",
		"Challenge your own assumptions",
		"Seek elegant and optimal solutions",
		"Build toward intellectual leadership in this area",
	}
	redirectFollowUps = []string{
		"Tell me more about what you're trying to achieve",
		"What would a version of this that you'd be proud of look like?",
		"How can I help you reach your goal ethically?",
	}
)

// Fixed per-level independence impact descriptions.
const (
	impactBeginner     = "increases significantly"
	impactIntermediate = "increases significantly"
	impactAdvanced     = "increases (approaching and building beyond full independence)"
	impactRedirect     = "maintains (and strengthens values)"
)
