package webserver

const homePage = `<!doctype html>
<html lang="en">
<head><meta charset="utf-8"><title>Welcome</title></head>
<body>
<main>
  <h1>Nothing to see here</h1>
  <p>This site is private.</p>
</main>
</body>
</html>
`

const loginPage = `<!doctype html>
<html lang="en">
<head><meta charset="utf-8"><title>Sign in</title></head>
<body>
<main>
  <h1>Access code</h1>
  <form id="login">
    <input id="password" type="password" autocomplete="current-password" autofocus required>
    <button type="submit">Enter</button>
  </form>
  <p id="error" role="alert"></p>
</main>
<script>
document.getElementById("login").addEventListener("submit", async (ev) => {
  ev.preventDefault();
  const errorEl = document.getElementById("error");
  const password = document.getElementById("password").value.trim();
  errorEl.textContent = "";
  if (!password) {
    errorEl.textContent = "Please enter an access code";
    return;
  }
  try {
    const res = await fetch("/api/login", {
      method: "POST",
      headers: { "Content-Type": "application/json" },
      credentials: "include",
      body: JSON.stringify({ password }),
    });
    const data = await res.json();
    if (!res.ok) {
      errorEl.textContent = data.error || "Invalid password";
      return;
    }
    window.location.href = data.redirect;
  } catch (e) {
    errorEl.textContent = "Something went wrong";
  }
});
</script>
</body>
</html>
`

const protectedPage = `<!doctype html>
<html lang="en">
<head><meta charset="utf-8"><title>Protected area</title></head>
<body>
<main>
  <h1>You're in</h1>
  <button id="logout" type="button">Log out</button>
</main>
<script>
document.getElementById("logout").addEventListener("click", async () => {
  await fetch("/api/logout", { method: "POST", credentials: "include" });
  window.location.href = "/";
});
</script>
</body>
</html>
`
