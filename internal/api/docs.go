package api

import (
	"io"
	"net/http"
)

// docsHandler serves a simple HTML API documentation at the root endpoint.
func docsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>Match Data Scraper API Docs</title>
  <style>
    :root { color-scheme: light dark; }
    body { font-family: system-ui, -apple-system, Segoe UI, Roboto, Helvetica, Arial, sans-serif; margin: 0; padding: 24px; line-height: 1.5; }
    header { margin-bottom: 24px; }
    code, pre { background: rgba(127,127,127,.15); padding: .2em .4em; border-radius: 4px; }
    pre { padding: 12px; overflow: auto; }
    .ep { margin: 18px 0; padding: 16px; border-left: 4px solid #16a34a; background: rgba(22,163,74,.08); border-radius: 6px; }
    h1 { margin: 0 0 8px; font-size: 1.6rem; }
    h2 { margin: 22px 0 8px; font-size: 1.2rem; }
    a { color: #2563eb; text-decoration: none; }
    a:hover { text-decoration: underline; }
    ul { padding-left: 18px; }
    footer { margin-top: 28px; font-size: .9rem; opacity: .8; }
  </style>
  <link rel="icon" href="data:," />
  <meta http-equiv="Cache-Control" content="no-store" />
  <meta name="robots" content="noindex" />
</head>
<body>
  <header>
    <h1>Match Data Scraper API</h1>
    <p>Status: <code>ok</code>. Every response is wrapped as <code>{"apiVersion": "1.0", "data": ...}</code> or <code>{"apiVersion": "1.0", "error": {...}}</code>.</p>
    <p>Scrapes fail soft: a match, shot map or player that could not be read comes back with status 200, empty collections and a <code>reason</code>.</p>
  </header>

  <section class="ep">
    <h2>FotMob Match</h2>
    <p><strong>GET</strong> <code>/match?url=MATCH_URL</code></p>
    <p>Example: <a href="/match?url=https://www.fotmob.com/matches/ac-milan-vs-roma/2gl9pd%234446402">/match?url=https://www.fotmob.com/matches/ac-milan-vs-roma/2gl9pd#4446402</a></p>
    <details>
      <summary>Response shape</summary>
      <pre>{
  "matchId": "4446402",
  "shots": [
    { "x": 94.1, "y": 30.2, "teamId": "8564", "eventType": "Goal", "playerName": "...", "expectedGoals": 0.31 }
  ],
  "teams": { "8564": "AC Milan", "8686": "AS Roma" },
  "fullData": { "stats": {}, "matchFacts": {}, "lineup": {}, "h2h": {}, "table": {} }
}</pre>
    </details>
  </section>

  <section class="ep">
    <h2>FotMob Match by id</h2>
    <p><strong>GET</strong> <code>/match/{id}</code></p>
    <p>Same shape as <code>/match</code>, read from the match details document.</p>
  </section>

  <section class="ep">
    <h2>SofaScore Shot Map</h2>
    <p><strong>GET</strong> <code>/shotmap?url=EVENT_URL</code></p>
    <details>
      <summary>Response shape</summary>
      <pre>{
  "shots": [
    { "x": 8.4, "y": 51.2, "teamId": "337602", "eventType": "Goal", "isHome": true, "shotType": "goal", "playerCoordinates": {} }
  ],
  "teams": { "337602": "Inter Miami CF", "2948": "New York Red Bulls" }
}</pre>
    </details>
  </section>

  <section class="ep">
    <h2>FotMob Shot Map</h2>
    <p><strong>GET</strong> <code>/shots?url=MATCH_URL</code></p>
    <p>Resolves the match id from the URL fragment (<code>#4446402</code>) and returns the shots of its match details in the shot map shape above.</p>
  </section>

  <section class="ep">
    <h2>Transfermarkt Player</h2>
    <p><strong>GET</strong> <code>/player?url=PROFILE_URL</code></p>
    <details>
      <summary>Response shape</summary>
      <pre>{
  "playerId": "418560",
  "playerName": "Erling Haaland",
  "shirtNumber": "9",
  "contractExpiry": "Jun 30, 2034",
  "birthplace": "Leeds",
  "agent": "Rafaela Pimenta",
  "height": "1,95 m",
  "marketValueHistory": {},
  "transferHistory": {},
  "performanceData": {}
}</pre>
    </details>
  </section>

  <section class="ep">
    <h2>Team Recent Fixtures</h2>
    <p><strong>GET</strong> <code>/team/recent?name=TEAM&amp;count=3&amp;expand=false</code></p>
    <ul>
      <li><code>count</code>: 1 to 10, default 3</li>
      <li><code>expand</code>: also fetch every match (bounded by <code>MAX_SESSIONS</code>)</li>
    </ul>
    <p>Errors: <code>404 team-not-found</code>, <code>404 no-completed-fixtures</code>, <code>504 search-timeout</code>.</p>
    <details>
      <summary>Response shape</summary>
      <pre>{
  "team": "Arsenal",
  "matchIds": ["4506781", "4506770", "4506759"],
  "matches": []
}</pre>
    </details>
  </section>

  <section class="ep">
    <h2>Compare Two Matches</h2>
    <p><strong>GET</strong> <code>/compare?a=MATCH_URL&amp;b=MATCH_URL[&amp;home=TEAM_ID&amp;away=TEAM_ID]</code></p>
    <p>Both matches are scraped concurrently. With <code>home</code> and <code>away</code> each team is located in its own match.</p>
    <details>
      <summary>Response shape</summary>
      <pre>{
  "comparison": { "matchA": {}, "matchB": {}, "teams": {}, "shots": [] },
  "selection": {
    "home": { "teamId": "8564", "name": "AC Milan", "matchId": "4446402", "shots": [], "goals": 2, "fullData": {} },
    "away": { "teamId": "9825", "name": "Arsenal", "matchId": "4506781", "shots": [], "goals": 1, "fullData": {} }
  }
}</pre>
    </details>
  </section>

  <footer>
    <p>Tip: every request launches its own headless browser; set generous proxy timeouts. Upstream sites may rate-limit.</p>
  </footer>
</body>
</html>`)
}
