package prompt

// Template bodies. These are instructions to the hosted model, so the wording
// matters more than it looks; change with care and re-check the operations
// that parse structured output.

const codeTemplate = `
You are an expert software developer. Generate high-quality, production-ready {{.Language}} code based on the following requirements.

Requirements: {{.Requirements}}

Please provide:
1. Clean, well-documented code
2. Proper error handling
3. Best practices implementation
4. Comments explaining key functionality

Generate only the code with appropriate comments. Do not include explanations outside the code.

Code:`

const testTemplate = `
You are a QA engineer. Generate comprehensive test cases using {{.Framework}} for the following code:

Code:
{{.Code}}

Generate:
1. Unit tests covering all functions
2. Edge cases and error handling tests
3. Integration tests if applicable
4. Test data and fixtures

Provide only the test code with appropriate imports and setup.

Test Code:`

const fixTemplate = `
You are a senior software engineer. Fix the bugs in the following code:

Code with bugs:
{{.Code}}

Error/Issue description:
{{.ErrorDescription}}

Provide:
1. Fixed code with corrections highlighted in comments
2. Brief explanation of what was wrong
3. Best practices to prevent similar issues

Focus on providing the corrected code with clear comments indicating fixes.

Fixed Code:`

const summarizeTemplate = `
You are a technical documentation expert. Analyze and summarize the following code:

Code:
{{.Code}}

Provide a comprehensive analysis including:
1. High-level summary of functionality
2. Key components and their purposes
3. Input/output description
4. Dependencies and requirements
5. Potential improvements or concerns

Format your response in clear sections with headings.

Analysis:`

const classifyTemplate = `
You are a business analyst. Classify the following requirements into structured categories:

Requirements:
{{.Requirements}}

Analyze and classify into:
1. Functional Requirements
2. Non-functional Requirements
3. Technical Requirements
4. Business Requirements
5. Priority Level (High/Medium/Low)
6. Complexity Estimate (Simple/Medium/Complex)

Format the output as a valid JSON object with these exact keys:
- "Functional Requirements": [list of items]
- "Non-functional Requirements": [list of items]
- "Technical Requirements": [list of items]
- "Business Requirements": [list of items]
- "Priority Level": "High/Medium/Low"
- "Complexity Estimate": "Simple/Medium/Complex"

Respond with only the JSON object, no additional text.

JSON:`

const chatTemplate = `
You are a helpful AI assistant specialized in software development and programming.

{{if .Context}}Context: {{.Context}}

{{end}}User Query: {{.Query}}

Provide a helpful, accurate response that:
1. Directly answers the question
2. Provides code examples if relevant
3. Explains technical concepts clearly
4. Suggests best practices
5. Keeps responses concise and actionable

Response:`
