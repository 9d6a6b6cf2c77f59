package subgraph

const ruleFields = `
	id
	jurisdiction
	ruleId
	rule { about affected negation uri }
	confirmation { ruleset witness }
	effects { name direction value disposition }
`

const findRulesQuery = `query FindRules($first: Int!, $skip: Int!, $where: JurisdictionRule_filter) {
	jurisdictionRules(first: $first, skip: $skip, where: $where, orderBy: id) {` + ruleFields + `}
}`

const findCasesQuery = `query FindCases($first: Int!, $skip: Int!, $where: CaseEntity_filter) {
	caseEntities(first: $first, skip: $skip, where: $where, orderBy: createdDate, orderDirection: desc) {
		id
		createdDate
		jurisdiction
		stage
		rules { jurisdiction ruleId }
		roles { role accounts }
		posts { entRole uri }
	}
}`

const findActionQuery = `query FindAction($guid: ID!) {
	action(id: $guid) { guid metadata uriData }
}`
