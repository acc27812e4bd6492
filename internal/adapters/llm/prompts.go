package llm

// Plantillas de prompts. Los headers que pedimos acá son los mismos
// markers que busca el parser (parse.go); si se toca uno hay que tocar
// el otro.

const evaluationPrompt = `You are an experienced interviewer evaluating a candidate's answer.

Question: %s

Candidate's answer: %s

Decide whether the answer is complete enough or whether you should ask a follow-up question to probe deeper. If a follow-up is needed, reply with a line saying "Follow-up needed" and then write the follow-up question on its own line (end it with a question mark). If the answer is complete, say the answer is sufficient and do not ask anything.`

const summaryPrompt = `You are an experienced interviewer writing the final evaluation of a mock %s interview at %s level.

Transcript:
%s

Write the evaluation with exactly these sections:

Overall Assessment
A short paragraph. State explicitly whether the candidate meets the bar for this level.

Strengths
- bullet list

Areas for Improvement
- bullet list

Examples
- specific moments from the transcript that support your assessment`

const coachPrompt = `You are a friendly senior engineer coaching someone through job interviews. Answer the following question with practical, concrete advice. Keep it under 400 words.

Question: %s`

const resumePrompt = `You are a recruiter and hiring manager reviewing a resume. Give actionable feedback on content, impact statements, and structure. Use these sections:

Overall Assessment
Strengths
Areas for Improvement

Resume:
%s`

const dailyTipPrompt = `Write a short, practical tech-career tip of the day for a community of software engineers preparing for interviews. One or two paragraphs, no preamble.`
