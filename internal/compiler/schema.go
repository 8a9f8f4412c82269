package compiler

// modelSchema is unified with every models package before compilation.
const modelSchema = `
system: [string]: #Model

#Model: #Rational | #Gain | #Delay | #Cascade | #Sum | #Feedback

#Coeffs: [number, ...number]

#Rational: {
	numerator:   #Coeffs
	denominator: #Coeffs
}

#Gain: {
	gain: number
}

#Delay: {
	delay: true
}

#Cascade: {
	cascade: [string, ...string]
}

#Sum: {
	sum: [string, string, ...string]
}

#Feedback: {
	feedback: string
	sign?:    "sub" | "add"
	through?: string
}
`
