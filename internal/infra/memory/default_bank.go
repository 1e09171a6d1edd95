package memory

import "quizroom-service/internal/domain"

// DefaultQuestions is the embedded catalog the service runs on when no
// Postgres store is configured.
func DefaultQuestions() []domain.Question {
	return []domain.Question{
		{
			ID: "cat-sci-7-001", Grade: 7, Subject: "Science", Chapter: "Nutrition in Plants",
			Type: domain.TypeShort, Question: "Name the process by which green plants prepare their own food.",
			Answer:   "Photosynthesis. Green plants use sunlight, water and carbon dioxide to synthesise glucose in their chlorophyll-containing cells.",
			Keywords: []string{"photosynthesis", "sunlight", "chlorophyll", "glucose"}, Source: "catalog",
		},
		{
			ID: "cat-sci-7-002", Grade: 7, Subject: "Science", Chapter: "Nutrition in Plants",
			Type: domain.TypeMCQ, Question: "Which pigment in leaves absorbs sunlight for photosynthesis?",
			Answer:   "Chlorophyll absorbs light energy, mainly in the blue and red parts of the spectrum.",
			Keywords: []string{"chlorophyll", "pigment", "light"},
			Options:  []string{"Carotene", "Chlorophyll", "Xanthophyll", "Anthocyanin"}, CorrectOption: 2, Source: "catalog",
		},
		{
			ID: "cat-sci-7-003", Grade: 7, Subject: "Science", Chapter: "Heat",
			Type: domain.TypeShort, Question: "State the difference between conduction and convection.",
			Answer:   "Conduction transfers heat through a solid without movement of the material itself; convection transfers heat in liquids and gases through the bulk movement of the medium.",
			Keywords: []string{"conduction", "convection", "solid", "fluid", "transfer"}, Source: "catalog",
		},
		{
			ID: "cat-sci-7-004", Grade: 7, Subject: "Science", Chapter: "Heat",
			Type: domain.TypeMCQ, Question: "A laboratory thermometer typically measures temperatures in the range:",
			Answer:   "A laboratory thermometer reads from -10°C to 110°C.",
			Keywords: []string{"laboratory thermometer", "range", "-10", "110"},
			Options:  []string{"35°C to 42°C", "-10°C to 110°C", "0°C to 50°C", "-50°C to 500°C"}, CorrectOption: 2, Source: "catalog",
		},
		{
			ID: "cat-sci-8-001", Grade: 8, Subject: "Science", Chapter: "Force and Pressure",
			Type: domain.TypeLong, Question: "Explain, with one example each, how a force can change the state of motion and the shape of an object.",
			Answer:   "A force can set a stationary object in motion or stop a moving one, e.g. kicking a football changes its state of motion. A force can also deform an object, e.g. pressing a lump of dough changes its shape.",
			Keywords: []string{"force", "state of motion", "shape", "deform", "example"}, Source: "catalog",
		},
		{
			ID: "cat-sci-8-002", Grade: 8, Subject: "Science", Chapter: "Force and Pressure",
			Type: domain.TypeNumerical, Question: "A force of 120 N acts on an area of 0.5 m². Calculate the pressure exerted.",
			Answer:   "Pressure = Force / Area = 120 / 0.5 = 240 Pa.",
			Keywords: []string{"pressure", "force", "area", "240", "pascal"}, Source: "catalog",
		},
		{
			ID: "cat-sci-8-003", Grade: 8, Subject: "Science", Chapter: "Friction",
			Type: domain.TypeMCQ, Question: "Which of the following reduces friction?",
			Answer:   "Lubricants such as oil fill the irregularities between surfaces and reduce friction.",
			Keywords: []string{"lubricant", "oil", "reduce", "friction"},
			Options:  []string{"Rough surfaces", "Lubricants", "Dry contact", "Heavier loads"}, CorrectOption: 2, Source: "catalog",
		},
		{
			ID: "cat-sci-9-001", Grade: 9, Subject: "Science", Chapter: "Motion",
			Type: domain.TypeNumerical, Question: "A car accelerates uniformly from 18 km/h to 36 km/h in 5 seconds. Find its acceleration in m/s².",
			Answer:   "u = 5 m/s, v = 10 m/s, t = 5 s. a = (v - u) / t = (10 - 5) / 5 = 1 m/s².",
			Keywords: []string{"acceleration", "uniform", "1 m/s", "velocity"}, Source: "catalog",
		},
		{
			ID: "cat-sci-9-002", Grade: 9, Subject: "Science", Chapter: "Motion",
			Type: domain.TypeShort, Question: "Distinguish between distance and displacement.",
			Answer:   "Distance is the total path length covered and is a scalar; displacement is the shortest straight-line change in position and is a vector.",
			Keywords: []string{"distance", "displacement", "scalar", "vector", "shortest"}, Source: "catalog",
		},
		{
			ID: "cat-sci-9-003", Grade: 9, Subject: "Science", Chapter: "Atoms and Molecules",
			Type: domain.TypeMCQ, Question: "The chemical formula of water shows hydrogen and oxygen combine in the mass ratio:",
			Answer:   "In H₂O hydrogen and oxygen are combined in the fixed mass ratio 1:8.",
			Keywords: []string{"mass ratio", "1:8", "hydrogen", "oxygen"},
			Options:  []string{"1:8", "2:1", "8:1", "1:16"}, CorrectOption: 1, Source: "catalog",
		},
		{
			ID: "cat-sci-10-001", Grade: 10, Subject: "Science", Chapter: "Light",
			Type: domain.TypeLong, Question: "Describe the image formed by a concave mirror when the object is placed between the pole and the focus.",
			Answer:   "The image is virtual, erect and magnified, and it appears to form behind the mirror. This arrangement is used in shaving and dentist mirrors.",
			Keywords: []string{"concave mirror", "virtual", "erect", "magnified", "behind"}, Source: "catalog",
		},
		{
			ID: "cat-sci-10-002", Grade: 10, Subject: "Science", Chapter: "Light",
			Type: domain.TypeNumerical, Question: "An object is placed 20 cm from a convex lens of focal length 10 cm. Find the image distance.",
			Answer:   "1/v - 1/u = 1/f with u = -20 cm, f = 10 cm gives v = 20 cm. The image forms 20 cm on the other side, real and inverted.",
			Keywords: []string{"lens formula", "20 cm", "real", "inverted", "focal length"}, Source: "catalog",
		},
		{
			ID: "cat-math-7-001", Grade: 7, Subject: "Mathematics", Chapter: "Integers",
			Type: domain.TypeNumerical, Question: "Evaluate: (-12) + 7 - (-5).",
			Answer:   "(-12) + 7 - (-5) = -12 + 7 + 5 = 0.",
			Keywords: []string{"integers", "zero", "additive"}, Source: "catalog",
		},
		{
			ID: "cat-math-7-002", Grade: 7, Subject: "Mathematics", Chapter: "Integers",
			Type: domain.TypeMCQ, Question: "The product of two negative integers is always:",
			Answer:   "A negative times a negative is positive.",
			Keywords: []string{"product", "negative", "positive"},
			Options:  []string{"Negative", "Positive", "Zero", "Undefined"}, CorrectOption: 2, Source: "catalog",
		},
		{
			ID: "cat-math-8-001", Grade: 8, Subject: "Mathematics", Chapter: "Linear Equations",
			Type: domain.TypeNumerical, Question: "Solve for x: 3x - 7 = 2x + 5.",
			Answer:   "3x - 2x = 5 + 7, so x = 12.",
			Keywords: []string{"linear equation", "x = 12", "transpose"}, Source: "catalog",
		},
		{
			ID: "cat-math-9-001", Grade: 9, Subject: "Mathematics", Chapter: "Polynomials",
			Type: domain.TypeShort, Question: "What is the degree of the polynomial 4x³ - 2x² + x - 7?",
			Answer:   "The degree is 3, the highest power of x with a non-zero coefficient.",
			Keywords: []string{"degree", "3", "highest power"}, Source: "catalog",
		},
		{
			ID: "cat-math-9-002", Grade: 9, Subject: "Mathematics", Chapter: "Polynomials",
			Type: domain.TypeMCQ, Question: "Which of the following is a zero of the polynomial p(x) = x² - 5x + 6?",
			Answer:   "p(2) = 4 - 10 + 6 = 0, so x = 2 is a zero (as is x = 3).",
			Keywords: []string{"zero", "factor", "x = 2", "x = 3"},
			Options:  []string{"1", "2", "4", "5"}, CorrectOption: 2, Source: "catalog",
		},
		{
			ID: "cat-math-10-001", Grade: 10, Subject: "Mathematics", Chapter: "Quadratic Equations",
			Type: domain.TypeNumerical, Question: "Find the roots of x² - 7x + 12 = 0.",
			Answer:   "x² - 7x + 12 = (x - 3)(x - 4) = 0, so x = 3 or x = 4.",
			Keywords: []string{"roots", "factorise", "3", "4"}, Source: "catalog",
		},
		{
			ID: "cat-math-10-002", Grade: 10, Subject: "Mathematics", Chapter: "Quadratic Equations",
			Type: domain.TypeMCQ, Question: "The discriminant of ax² + bx + c = 0 is:",
			Answer:   "The discriminant is b² - 4ac; its sign decides the nature of the roots.",
			Keywords: []string{"discriminant", "b² - 4ac", "nature of roots"},
			Options:  []string{"b² + 4ac", "b² - 4ac", "4ac - b²", "2b - 4ac"}, CorrectOption: 2, Source: "catalog",
		},
	}
}
