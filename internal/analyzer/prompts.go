package analyzer

const systemPrompt = `You analyze chat conversations and produce a structured report.

From the conversation you are given, extract:

1. Summary: a concise 2-3 paragraph summary covering the main topics and key points.
2. Overall sentiment: positive, negative, neutral, or mixed, with a confidence score and a brief explanation.
3. Individual sentiments: one verdict per participant.
4. Key topics: the main subjects discussed, as a list.
5. Actionables: action items, tasks, commitments, or things that need to be done, each with:
   - what needs to be done
   - who is responsible (or "Not specified")
   - deadline (or "Not specified")
   - priority: high, medium, low, or not specified
   - brief context from the conversation
   - approximate timestamp, or "recent" for the latest part
6. Conversation insights: tone (formal/informal/casual/professional), engagement level (high/medium/low), and key points.

Return your analysis in this exact JSON shape, with no additional text:

{
  "summary": "...",
  "overall_sentiment": {"sentiment": "positive|negative|neutral|mixed", "confidence": 0.85, "explanation": "..."},
  "participant_sentiments": [{"participant": "Name", "sentiment": "positive|negative|neutral", "explanation": "..."}],
  "key_topics": ["Topic 1", "Topic 2"],
  "actionables": [{"action": "...", "assignee": "...", "deadline": "...", "priority": "high|medium|low|not specified", "context": "...", "mentioned_at": "..."}],
  "conversation_insights": {"tone": "formal|informal|casual|professional", "engagement_level": "high|medium|low", "key_points": ["..."]}
}`

const analysisUserPrompt = `The conversation is between %s.

---START CONVERSATION---
%s
---END CONVERSATION---

Provide your analysis in valid JSON format only, no additional text.`

const quickSummaryPrompt = `Provide a brief 2-3 sentence summary of this conversation:

%s

Be concise and focus on the main points.`
