package content

// Descriptors are the official IELTS Academic Writing band descriptors (May
// 2023 revision) for bands 9 down to 5.

var task1Descriptors = []Descriptor{
	{
		Band:              9,
		Criterion1:        "All the requirements of the task are fully and appropriately satisfied. There may be extremely rare lapses in content.",
		CoherenceCohesion: "The message can be followed effortlessly. Cohesion is used in such a way that it very rarely attracts attention. Any lapses in coherence or cohesion are minimal. Paragraphing is skilfully managed.",
		LexicalResource:   "Full flexibility and precise use are evident within the scope of the task. A wide range of vocabulary is used accurately and appropriately with very natural and sophisticated control of lexical features. Minor errors in spelling and word formation are extremely rare and have minimal impact on communication.",
		GrammarAccuracy:   "A wide range of structures within the scope of the task is used with full flexibility and control. Punctuation and grammar are used appropriately throughout. Minor errors are extremely rare and have minimal impact on communication.",
	},
	{
		Band:              8,
		Criterion1:        "The response covers all the requirements of the task appropriately, relevantly and sufficiently. (Academic) Key features are skilfully selected, and clearly presented, highlighted and illustrated. There may be occasional omissions or lapses in content.",
		CoherenceCohesion: "The message can be followed with ease. Information and ideas are logically sequenced, and cohesion is well managed. Occasional lapses in coherence or cohesion may occur. Paragraphing is used sufficiently and appropriately.",
		LexicalResource:   "A wide resource is fluently and flexibly used to convey precise meanings within the scope of the task. There is skilful use of uncommon and/or idiomatic items when appropriate, despite occasional inaccuracies in word choice and collocation. Occasional errors in spelling and/or word formation may occur.",
		GrammarAccuracy:   "A wide range of structures within the scope of the task is flexibly and accurately used. The majority of sentences are error-free, and punctuation is well managed. Occasional, non-systematic errors and inappropriacies occur.",
	},
	{
		Band:              7,
		Criterion1:        "The response covers the requirements of the task. The content is relevant and accurate – there may be a few omissions or lapses. (Academic) Key features which are selected are covered and clearly highlighted. It presents a clear overview.",
		CoherenceCohesion: "Information and ideas are logically organised and there is a clear progression throughout the response. A few lapses may occur. A range of cohesive devices including reference and substitution is used flexibly but with some inaccuracies.",
		LexicalResource:   "The resource is sufficient to allow some flexibility and precision. There is some ability to use less common and/or idiomatic items. An awareness of style and collocation is evident, though inappropriacies occur. Only a few errors in spelling and/or word formation.",
		GrammarAccuracy:   "A variety of complex structures is used with some flexibility and accuracy. Grammar and punctuation are generally well controlled, and error-free sentences are frequent. A few errors in grammar may persist, but these do not impede communication.",
	},
	{
		Band:              6,
		Criterion1:        "The response focuses on the requirements of the task and an appropriate format is used. (Academic) Key features are covered and adequately highlighted. A relevant overview is attempted. Information is appropriately selected and supported.",
		CoherenceCohesion: "Information and ideas are generally arranged coherently and there is a clear overall progression. Cohesive devices are used to some good effect but cohesion within and/or between sentences may be faulty or mechanical.",
		LexicalResource:   "The resource is generally adequate and appropriate for the task. The meaning is generally clear in spite of a rather restricted range or a lack of precision in word choice. Some errors in spelling and/or word formation, but these do not impede communication.",
		GrammarAccuracy:   "A mix of simple and complex sentence forms is used but flexibility is limited. Errors in grammar and punctuation occur, but rarely impede communication.",
	},
	{
		Band:              5,
		Criterion1:        "The response generally addresses the requirements of the task. The format may be inappropriate in places. (Academic) Key features are not adequately covered. The recounting of detail is mainly mechanical. There may be no data to support the description.",
		CoherenceCohesion: "Organisation is evident but is not wholly logical and there may be a lack of overall progression. The relationship of ideas can be followed but the sentences are not fluently linked to each other. There may be limited/overuse of cohesive devices.",
		LexicalResource:   "The resource is limited but minimally adequate for the task. Simple vocabulary may be used accurately but the range does not permit much variation in expression. Frequent lapses in the appropriacy of word choice.",
		GrammarAccuracy:   "The range of structures is limited and rather repetitive. Although complex sentences are attempted, they tend to be faulty. Grammatical errors may be frequent and cause some difficulty for the reader.",
	},
}

var task2Descriptors = []Descriptor{
	{
		Band:              9,
		Criterion1:        "The prompt is appropriately addressed and explored in depth. A clear and fully developed position is presented which directly answers the question/s. Ideas are relevant, fully extended and well supported.",
		CoherenceCohesion: "The message can be followed effortlessly. Cohesion is used in such a way that it very rarely attracts attention. Any lapses in coherence or cohesion are minimal. Paragraphing is skilfully managed.",
		LexicalResource:   "Full flexibility and precise use are widely evident. A wide range of vocabulary is used accurately and appropriately with very natural and sophisticated control of lexical features. Minor errors in spelling and word formation are extremely rare.",
		GrammarAccuracy:   "A wide range of structures is used with full flexibility and control. Punctuation and grammar are used appropriately throughout. Minor errors are extremely rare and have minimal impact on communication.",
	},
	{
		Band:              8,
		Criterion1:        "The prompt is appropriately and sufficiently addressed. A clear and well-developed position is presented in response to the question/s. Ideas are relevant, well extended and supported. There may be occasional omissions or lapses.",
		CoherenceCohesion: "The message can be followed with ease. Information and ideas are logically sequenced, and cohesion is well managed. Occasional lapses in coherence and cohesion may occur. Paragraphing is used sufficiently and appropriately.",
		LexicalResource:   "A wide resource is fluently and flexibly used to convey precise meanings. Skilful use of uncommon/idiomatic items when appropriate. Occasional errors in spelling and/or word formation may occur.",
		GrammarAccuracy:   "A wide range of structures is flexibly and accurately used. The majority of sentences are error-free, and punctuation is well managed. Occasional, non-systematic errors and inappropriacies occur.",
	},
	{
		Band:              7,
		Criterion1:        "The main parts of the prompt are appropriately addressed. A clear and developed position is presented. Main ideas are extended and supported but there may be a tendency to over-generalise or a lack of focus.",
		CoherenceCohesion: "Information and ideas are logically organised, and there is a clear progression throughout the response. A range of cohesive devices is used flexibly but with some inaccuracies. Paragraphing is generally used effectively.",
		LexicalResource:   "The resource is sufficient to allow some flexibility and precision. There is some ability to use less common and/or idiomatic items. An awareness of style and collocation is evident, though inappropriacies occur.",
		GrammarAccuracy:   "A variety of complex structures is used with some flexibility and accuracy. Grammar and punctuation are generally well controlled, and error-free sentences are frequent. A few errors in grammar may persist.",
	},
	{
		Band:              6,
		Criterion1:        "The main parts of the prompt are addressed (though some may be more fully covered than others). A position is presented that is directly relevant to the prompt. Main ideas are relevant, but some may be insufficiently developed.",
		CoherenceCohesion: "Information and ideas are generally arranged coherently and there is a clear overall progression. Cohesive devices are used to some good effect but cohesion within and/or between sentences may be faulty or mechanical.",
		LexicalResource:   "The resource is generally adequate and appropriate for the task. The meaning is generally clear in spite of a rather restricted range or a lack of precision in word choice. Errors in spelling/word formation do not impede communication.",
		GrammarAccuracy:   "A mix of simple and complex sentence forms is used but flexibility is limited. Examples of more complex structures are not marked by the same level of accuracy as in simple structures.",
	},
	{
		Band:              5,
		Criterion1:        "The main parts of the prompt are incompletely addressed. The writer expresses a position, but the development is not always clear. Some main ideas are put forward, but they are limited and are not sufficiently developed.",
		CoherenceCohesion: "Organisation is evident but is not wholly logical and there may be a lack of overall progression. The relationship of ideas can be followed but the sentences are not fluently linked to each other. Paragraphing may be inadequate.",
		LexicalResource:   "The resource is limited but minimally adequate for the task. Simple vocabulary may be used accurately but the range does not permit much variation in expression. Errors in spelling may be noticeable.",
		GrammarAccuracy:   "The range of structures is limited and rather repetitive. Although complex sentences are attempted, they tend to be faulty. Grammatical errors may be frequent and cause some difficulty for the reader.",
	},
}
