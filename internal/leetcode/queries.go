package leetcode

// recentAcceptedQuery is the lightweight, unauthenticated query for a
// user's most recent accepted submissions.
const recentAcceptedQuery = `
query recentAcSubmissionList($username: String!, $limit: Int!) {
  recentAcSubmissionList(username: $username, limit: $limit) {
    id
    title
    titleSlug
    statusDisplay
    timestamp
    lang
    runtime
    memory
    url
  }
}
`

// submissionListQuery is the heavy, authenticated query that pages
// through the caller's entire submission history.
const submissionListQuery = `
query submissionList($offset: Int!, $limit: Int!) {
    submissionList(offset: $offset, limit: $limit) {
        hasNext
        submissions {
            titleSlug
            statusDisplay
            timestamp
            lang
            runtime
            memory
            url
        }
    }
}
`
