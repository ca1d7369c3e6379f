package domain

// DefaultBankID names the compiled-in bank.
const DefaultBankID = "default"

// DefaultQuestions is the compiled-in general knowledge bank.
func DefaultQuestions() []Question {
	return []Question{
		{Prompt: "1. What is the square root of 36?", Answer: "6", Hint: "Think of a number multiplied by itself.", Points: 5},
		{Prompt: "2. What is the official language of India?", Answer: "Hindi", Hint: "It's one of the most spoken languages in India.", Points: 10},
		{Prompt: "3. What is the smallest prime number?", Answer: "2", Hint: "It's an even number.", Points: 5},
		{Prompt: "4. What is the name of the longest river in South America?", Answer: "Amazon", Hint: "It shares its name with a major online retailer.", Points: 5},
		{Prompt: "5. What is the capital of Canada?", Answer: "Ottawa", Hint: "Not Toronto or Vancouver.", Points: 15},
		{Prompt: "6. What element has the chemical symbol H?", Answer: "Hydrogen", Hint: "It's the lightest element.", Points: 20},
		{Prompt: "7. What company did Steve Jobs found?", Answer: "Apple", Hint: "Think of a popular tech company with a fruit name.", Points: 5},
		{Prompt: "8. Which gas makes up the largest proportion of Earth’s atmosphere?", Answer: "Nitrogen", Hint: "It's not oxygen.", Points: 20},
		{Prompt: "9. Which language has the largest number of speakers in the world?", Answer: "Chinese", Hint: "It has the most speakers due to population.", Points: 10},
		{Prompt: "10. What is the largest continent in the world?", Answer: "Asia", Hint: "It's where China and India are located.", Points: 5},
	}
}

// DefaultBank builds the compiled-in bank. It panics only if the literal
// above is edited into an invalid state.
func DefaultBank() Bank {
	b, err := NewBank(DefaultBankID, DefaultQuestions())
	if err != nil {
		panic(err)
	}
	return b
}
