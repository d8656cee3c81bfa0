package fallback

// Tutor is the EduMark tutor catalog. Groups overlap heavily (for example "hi"
// matches "this"), so the order below decides the answer.
var Tutor = Catalog{
	Name: "tutor",
	Groups: []Group{
		{
			Name:     "greeting",
			Keywords: []string{"hello", "hi", "hey", "good morning", "good afternoon"},
			Response: `Hello! I'm EduMarkAI, your educational assistant. I'm here to help with homework, study strategies, concept explanations, and academic guidance. What can I help you learn today? 📚`,
		},
		{
			Name:     "help",
			Keywords: []string{"help", "assist", "support"},
			Response: `🎓 **EduMarkAI Help Menu**

I can assist you with:

📚 **Subject Help**
• Math problems and concepts
• Science explanations and experiments  
• Writing and literature analysis
• History and social studies
• Foreign languages

💡 **Study Support**
• Effective study techniques
• Test preparation strategies
• Note-taking methods
• Time management tips

📝 **Assignment Guidance**
• Essay planning and structure
• Research strategies
• Citation help
• Project organization

**What specific topic would you like help with?**`,
		},
		{
			Name:     "math",
			Keywords: []string{"math", "mathematics", "algebra", "geometry", "calculus", "trigonometry", "statistics"},
			Response: `🧮 **Math Help Available!**

I can help you with:

• **Problem-solving strategies** - Breaking down complex problems
• **Step-by-step solutions** - Clear explanations for each step
• **Key formulas and when to use them**
• **Common mistakes to avoid**
• **Practice techniques for mastery**

**Math Study Tips:**
1. Practice regularly, not just before tests
2. Understand the 'why' behind formulas
3. Work through examples step-by-step
4. Explain solutions to someone else

Share your specific math problem or concept, and I'll walk you through it!`,
		},
		{
			Name:     "science",
			Keywords: []string{"science", "biology", "chemistry", "physics", "experiment", "lab"},
			Response: `🔬 **Science Help Ready!**

I can explain concepts in:

🧬 **Biology**
• Cell structure and function
• Genetics and DNA
• Evolution and natural selection
• Ecosystems and environment

⚗️ **Chemistry** 
• Atomic structure and periodic table
• Chemical reactions and equations
• Molecular bonding
• Lab safety and procedures

⚡ **Physics**
• Forces and motion
• Energy and waves
• Electricity and magnetism
• Thermodynamics

**Science Study Strategy:**
Connect concepts to real-world examples and use visual aids like diagrams and charts.

What science topic interests you?`,
		},
		{
			Name:     "writing",
			Keywords: []string{"writing", "essay", "paper", "english", "literature", "grammar"},
			Response: `✍️ **Writing Support Available!**

I can help with:

📝 **Essay Writing**
• Structure: Introduction, body, conclusion
• Thesis statement development
• Supporting arguments with evidence
• Smooth transitions between ideas

📚 **Literature Analysis**
• Character development
• Themes and symbolism
• Literary devices
• Critical thinking skills

📖 **Research Papers**
• Topic selection and narrowing
• Finding credible sources
• Proper citation formats (MLA, APA)
• Avoiding plagiarism

**Writing Process Tips:**
1. Brainstorm and outline first
2. Write a rough draft without editing
3. Revise for content and organization
4. Proofread for grammar and mechanics

What writing project are you working on?`,
		},
		{
			Name:     "study",
			Keywords: []string{"study", "studying", "exam", "test", "quiz", "memory", "learn"},
			Response: `💡 **Study Strategies That Work!**

**Evidence-Based Techniques:**

🔄 **Active Recall**
• Test yourself regularly
• Use flashcards effectively
• Summarize without looking at notes

📅 **Spaced Repetition**
• Review material at increasing intervals
• Don't cram - spread out study sessions
• Use apps like Anki for scheduling

🧩 **Elaborative Learning**
• Connect new info to what you know
• Ask "why" and "how" questions
• Create analogies and examples

👥 **Teaching Others**
• Explain concepts to friends/family
• Join study groups
• Create your own practice questions

🎯 **Focus Techniques**
• Pomodoro Technique (25-min focused sessions)
• Eliminate distractions
• Take regular breaks

What subject or upcoming test would you like study strategies for?`,
		},
		{
			Name:     "history",
			Keywords: []string{"history", "historical", "social studies", "government", "politics"},
			Response: `📚 **History Help Ready!**

I can assist with:

🏛️ **Historical Analysis**
• Understanding cause and effect
• Analyzing primary sources
• Comparing different time periods
• Developing historical arguments

📜 **Study Strategies for History**
• Create timelines for chronology
• Use maps for geographical context
• Connect events to modern issues
• Practice with DBQ (Document-Based Questions)

🗳️ **Government & Civics**
• Constitutional principles
• Branches of government
• Rights and responsibilities
• Democratic processes

**History Study Tip:**
Think of history as stories about real people making decisions. Ask yourself: What were they thinking? What were their options? What were the consequences?

What historical period or event are you studying?`,
		},
		{
			Name:     "homework",
			Keywords: []string{"homework", "assignment", "project", "due"},
			Response: `📝 **Homework Help Strategy**

**Let's tackle your assignment step by step:**

1️⃣ **Understand the Task**
• Read instructions carefully
• Identify key requirements
• Note the due date and format

2️⃣ **Break It Down**
• Divide large assignments into smaller tasks
• Create a timeline working backwards from due date
• Set mini-deadlines for each part

3️⃣ **Gather Resources**
• Textbooks and class notes
• Reliable online sources
• Library databases
• Teacher's examples

4️⃣ **Create and Execute**
• Start with an outline
• Work in focused sessions
• Take breaks to maintain quality
• Leave time for revision

**Share your specific assignment details and I'll provide more targeted help!**

What subject is your homework in, and what type of assignment is it?`,
		},
		{
			Name:     "encouragement",
			Keywords: []string{"hard", "difficult", "struggling", "confused", "frustrated"},
			Response: `💪 **You've Got This!**

Remember that learning is a process, and struggling with challenging material is completely normal. Here's how to push through:

🌟 **Growth Mindset Tips:**
• Mistakes are learning opportunities
• "I don't understand this YET"
• Focus on progress, not perfection
• Ask for help when needed

🎯 **When Something Feels Too Hard:**
1. Break it into smaller pieces
2. Find a simpler example to start with
3. Look for patterns or connections
4. Take a short break and come back fresh
5. Explain what you DO understand

✨ **Remember:**
Every expert was once a beginner. Every pro was once an amateur. Every success story started with someone who kept trying.

What specific topic or concept is giving you trouble? Let's work through it together!`,
		},
	},
	Default: `🎓 **Welcome to EduMarkAI!**

I'm your educational assistant, ready to help with:

📚 **Academic Subjects**
• Math, Science, English, History
• Step-by-step problem solving
• Concept explanations

💡 **Study Success**
• Effective study techniques
• Test preparation strategies
• Memory and retention tips

📝 **Writing & Research**
• Essay structure and development
• Research strategies
• Citation help

🎯 **Learning Support**
• Homework guidance
• Project planning
• Time management

**To get the most helpful response, please tell me:**
• What subject you're working on
• Your specific question or challenge
• What level you're studying (elementary, middle school, high school, college)

**What can I help you learn today?**`,
}

// Assistant is the short-form catalog used with the Gemma 3 assistant prompt.
var Assistant = Catalog{
	Name: "assistant",
	Groups: []Group{
		{
			Name:     "explain",
			Keywords: []string{"explain", "what is", "how does", "help me understand"},
			Response: `I'd be happy to help explain that concept! Could you provide a bit more specific information about what you'd like me to explain? For example, which subject area or particular aspect you're focusing on?`,
		},
		{
			Name:     "writing",
			Keywords: []string{"essay", "write", "paper", "assignment"},
			Response: `For writing assignments, I recommend starting with an outline: 1) Introduction with thesis statement, 2) Body paragraphs with supporting evidence, 3) Conclusion that ties everything together. What specific aspect of your writing would you like help with?`,
		},
		{
			Name:     "documents",
			Keywords: []string{"pdf", "document", "file", "upload"},
			Response: `I can help analyze and explain content from documents. Once you upload a PDF, I can help summarize key points, explain concepts, or answer questions about the material. What type of document are you working with?`,
		},
		{
			Name:     "math",
			Keywords: []string{"math", "calculate", "solve", "equation"},
			Response: `I can help with math problems! Please share the specific equation or problem you're working on, and I'll walk you through the solution step by step.`,
		},
		{
			Name:     "study",
			Keywords: []string{"study", "learn", "understand", "confused"},
			Response: `I'm here to help you learn! What subject or topic are you studying? I can break down complex concepts into simpler parts and provide examples to help you understand better.`,
		},
	},
	Default: `I'm here to help with your educational needs! I can assist with explanations, writing, document analysis, math problems, and general learning support. What would you like to work on today?`,
}

// Subject maps a message to one of four school subjects.
var Subject = Catalog{
	Name: "subject",
	Groups: []Group{
		{
			Name:     "math",
			Keywords: []string{"math", "algebra", "calculus", "equation", "solve"},
			Response: `Let me help you solve this step by step. First, let's understand what we're trying to find...`,
		},
		{
			Name:     "science",
			Keywords: []string{"science", "physics", "chemistry", "biology"},
			Response: `This is a fascinating scientific concept. Let me break it down for you...`,
		},
		{
			Name:     "english",
			Keywords: []string{"write", "essay", "grammar", "literature"},
			Response: `Let's analyze this writing task together. Here's how we can approach it...`,
		},
		{
			Name:     "history",
			Keywords: []string{"history", "historical", "past", "event"},
			Response: `This historical event is important to understand. Here's the context...`,
		},
	},
	Default: `I'd be happy to help you learn about this topic. Let me explain...`,
}
