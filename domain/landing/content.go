package landing

// Card is a titled blurb on the landing page.
type Card struct {
	Title string
	Body  string
}

var featureCards = []Card{
	{
		Title: "Authentic Experience",
		Body:  "Work on production-like apps: create a mini Docker clone, implement microservices, or even build your own shell.",
	},
	{
		Title: "Free to Start",
		Body:  "Access all core challenges at no cost. Learn at your own pace with zero financial barriers.",
	},
	{
		Title: "Instant Feedback",
		Body:  "Each code push triggers automated tests, so you'll know right away whether you're on the right track.",
	},
	{
		Title: "Expert Guidance",
		Body:  "Need a deeper dive? Tap into seasoned mentors for detailed code reviews or 1:1 sessions.",
	},
}

var mentorshipCards = []Card{
	{
		Title: "Flexible Pricing",
		Body:  "Choose a per-session rate for occasional deep dives, or opt for a monthly plan that keeps you supported every step of the way.",
	},
	{
		Title: "Expert Engineers",
		Body:  "Our mentors have real-world experience in backend, DevOps, and more. Learn directly from engineers who have tackled the challenges you are facing.",
	},
	{
		Title: "Actionable Feedback",
		Body:  "Receive personalized code reviews that show you precisely where to improve, along with best practices that help you level up quickly.",
	},
}
